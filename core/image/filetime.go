package image

import (
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// TimeOutcome reports how SetModTime ended for one file. Only TimeSet
// changes the file.
type TimeOutcome int

const (
	TimeSet TimeOutcome = iota
	TimeAlreadySet
	TimeNoDate
	TimeUnsupported
)

func (o TimeOutcome) String() string {
	switch o {
	case TimeSet:
		return "modification time set"
	case TimeAlreadySet:
		return "modification time already matches"
	case TimeNoDate:
		return "no creation time in metadata"
	case TimeUnsupported:
		return "unsupported format"
	}
	return "unknown outcome"
}

// TimeResult is the per-file report of SetModTimes.
type TimeResult struct {
	Path    string
	Outcome TimeOutcome
	// Created is the metadata creation time in Unix seconds, 0 for
	// TimeNoDate and TimeUnsupported.
	Created int64
	// Previous is the modification time found before the call.
	Previous time.Time
	Err      error
}

// SetModTime sets the access and modification times of path to the
// creation time recorded in its metadata. A file whose modification time
// already equals that time, or that time plus one second, is left alone.
func SetModTime(path string) (TimeResult, error) {
	r := TimeResult{Path: path}
	m, err := Open(path)
	if err != nil {
		return r, err
	}
	if !m.Supported() {
		r.Outcome = TimeUnsupported
		return r, nil
	}
	sec, ok := m.TimeCreated()
	if !ok {
		r.Outcome = TimeNoDate
		return r, nil
	}
	r.Created = sec

	st, err := os.Stat(path)
	if err != nil {
		return r, err
	}
	r.Previous = st.ModTime()
	created := time.Unix(sec, 0)
	if r.Previous.Equal(created) || r.Previous.Equal(created.Add(time.Second)) {
		r.Outcome = TimeAlreadySet
		return r, nil
	}
	if err := os.Chtimes(path, created, created); err != nil {
		return r, errors.Wrap(err, "image: setting file time")
	}
	log.Debug().Str("path", path).Time("from", r.Previous).Time("to", created).Msg("image: modification time set")
	r.Outcome = TimeSet
	return r, nil
}

// SetModTimes runs SetModTime on every path in order, passing each result
// to report. A failing file does not stop the batch; the returned error
// collects every failure.
func SetModTimes(paths []string, report func(TimeResult)) error {
	var errs *multierror.Error
	for _, path := range paths {
		r, err := SetModTime(path)
		if err != nil {
			r.Err = err
			errs = multierror.Append(errs, err)
		}
		report(r)
	}
	return errs.ErrorOrNil()
}
