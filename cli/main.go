package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/ankit-chaubey/exif-surgery/core"
	"github.com/ankit-chaubey/exif-surgery/core/image"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const usage = `Usage:
  surgery view [--json] [-v] <image>
  surgery time [--set] <image>...
  surgery orient [--dry-run] <image> <1-8> <out.jpg>

Environment:
  SURGERY_LOG_LEVEL   zerolog level (default "warn")`

func main() {
	args, flags := splitFlags(os.Args[1:])
	setupLogging(flags["-v"])

	if len(args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	var err error
	switch cmd := args[0]; cmd {
	case "view":
		err = view(args[1], flags["--json"], flags["-v"])
	case "time":
		if flags["--set"] {
			err = setTimes(args[1:])
		} else {
			err = created(args[1:])
		}
	case "orient":
		if len(args) != 4 {
			fmt.Println(usage)
			os.Exit(1)
		}
		err = orient(args[1], args[2], args[3], flags["--dry-run"])
	default:
		core.PrintError("unknown command " + strconv.Quote(cmd))
		fmt.Println(usage)
		os.Exit(1)
	}
	if err != nil {
		core.PrintError(err.Error())
		os.Exit(1)
	}
}

func splitFlags(in []string) (args []string, flags map[string]bool) {
	flags = map[string]bool{}
	for _, a := range in {
		switch a {
		case "--json", "-v", "--dry-run", "--set":
			flags[a] = true
		default:
			args = append(args, a)
		}
	}
	return args, flags
}

func setupLogging(verbose bool) {
	level := zerolog.WarnLevel
	if s := os.Getenv("SURGERY_LOG_LEVEL"); s != "" {
		if l, err := zerolog.ParseLevel(s); err == nil {
			level = l
		}
	}
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

func handlerFor(path string) (*image.Handler, error) {
	id, err := core.DetectFormat(path)
	if err != nil {
		return nil, err
	}
	return image.New(id), nil
}

func view(path string, jsonMode, verbose bool) error {
	h, err := handlerFor(path)
	if err != nil {
		return err
	}
	m, err := h.View(path)
	if err != nil {
		return err
	}
	core.NewPrinter(jsonMode, verbose).PrintMetadata(m)
	return nil
}

// created prints the creation time of each file. A file that cannot be
// read is reported and the rest are still processed.
func created(paths []string) error {
	p := core.NewPrinter(false, false)
	var errs *multierror.Error
	for _, path := range paths {
		m, err := image.Open(path)
		if err != nil {
			core.PrintError(err.Error())
			errs = multierror.Append(errs, err)
			continue
		}
		if !m.Supported() {
			p.PrintInfo(path + ": unsupported format")
			continue
		}
		sec, ok := m.TimeCreated()
		if !ok {
			p.PrintInfo(path + ": no creation time in metadata")
			continue
		}
		p.PrintInfo(path + ": " + core.FormatTime(sec))
	}
	return batchError(errs.ErrorOrNil(), len(paths))
}

// setTimes sets each file's modification time to its creation time.
func setTimes(paths []string) error {
	p := core.NewPrinter(false, false)
	err := image.SetModTimes(paths, func(r image.TimeResult) {
		switch {
		case r.Err != nil:
			core.PrintError(r.Err.Error())
		case r.Outcome == image.TimeSet:
			p.PrintSuccess(fmt.Sprintf("%s: mod time set to %s (was %s)", r.Path,
				core.FormatTime(r.Created), core.FormatTime(r.Previous.Unix())))
		default:
			p.PrintInfo(r.Path + ": " + r.Outcome.String())
		}
	})
	return batchError(err, len(paths))
}

// batchError summarises per-file failures that were already printed.
func batchError(err error, total int) error {
	var merr *multierror.Error
	if !errors.As(err, &merr) {
		return err
	}
	return errors.Errorf("%d of %d files failed", len(merr.Errors), total)
}

func orient(path, value, out string, dryRun bool) error {
	v, err := strconv.ParseUint(value, 10, 16)
	if err != nil {
		return errors.Errorf("invalid orientation %q", value)
	}
	h, err := handlerFor(path)
	if err != nil {
		return err
	}
	if !h.Info().CanOrient {
		return errors.Errorf("%s: orientation patching not supported for %s", path, h.Info().Name)
	}
	outcome, err := h.Orient(path, out, core.OrientOptions{Value: uint16(v), DryRun: dryRun})
	if err != nil {
		return err
	}
	p := core.NewPrinter(false, false)
	if outcome != core.OrientWritten {
		p.PrintInfo(path + ": " + outcome.String())
		return nil
	}
	p.PrintSuccess(fmt.Sprintf("%s written with orientation %d, %s", out, v, image.OrientationName(uint16(v))))
	return nil
}
