package exif

import "strconv"

// Kind identifies which directory a schema describes.
type Kind uint8

const (
	KindRoot Kind = iota
	KindExif
	KindGPS
	KindInterop
)

// Tags referenced outside the schema tables.
const (
	TagOrientation      uint16 = 274
	TagDateTime         uint16 = 306
	TagExifIFD          uint16 = 34665
	TagGPSIFD           uint16 = 34853
	TagDateTimeOriginal uint16 = 36867
	TagMakerNote        uint16 = 37500
	TagInteropIFD       uint16 = 40965
)

// Formatter renders a value for display. It never affects decoding.
type Formatter func(v *Value) string

// Tag describes one tag id within a schema. Sub is non-nil only for
// tags whose value points at a nested directory.
type Tag struct {
	ID     uint16
	Name   string
	Sub    *Schema
	Format Formatter
}

// Known reports whether the descriptor comes from a static table.
func (t *Tag) Known() bool { return t.Name != strconv.Itoa(int(t.ID)) }

// Schema is the static, read-only tag table of one directory kind.
type Schema struct {
	Kind Kind
	Name string
	tags map[uint16]*Tag
}

func newSchema(kind Kind, name string, tags ...*Tag) *Schema {
	s := &Schema{Kind: kind, Name: name, tags: make(map[uint16]*Tag, len(tags))}
	for _, t := range tags {
		s.tags[t.ID] = t
	}
	return s
}

// Lookup returns the descriptor for id. Unknown ids get a fresh
// descriptor named after the decimal id; it is not added to s.
func (s *Schema) Lookup(id uint16) *Tag {
	if t, ok := s.tags[id]; ok {
		return t
	}
	return &Tag{ID: id, Name: strconv.Itoa(int(id))}
}

// Len returns the number of statically known tags.
func (s *Schema) Len() int { return len(s.tags) }

var (
	InteropSchema = newSchema(KindInterop, "Interoperability",
		&Tag{ID: 1, Name: "InteroperabilityIndex"},
		&Tag{ID: 2, Name: "InteroperabilityVersion", Format: formatEscaped},
		&Tag{ID: 4097, Name: "RelatedImageWidth"},
		&Tag{ID: 4098, Name: "RelatedImageLength"},
	)

	ExifSchema = newSchema(KindExif, "Exif",
		&Tag{ID: 33434, Name: "ExposureTime", Format: formatExposureTime},
		&Tag{ID: 33437, Name: "FNumber", Format: formatFNumber},
		&Tag{ID: 34850, Name: "ExposureProgram"},
		&Tag{ID: 34855, Name: "PhotographicSensitivity"},
		&Tag{ID: 34864, Name: "SensitivityType"},
		&Tag{ID: 34866, Name: "RecommendedExposureIndex"},
		&Tag{ID: 36864, Name: "ExifVersion", Format: formatEscaped},
		&Tag{ID: TagDateTimeOriginal, Name: "DateTimeOriginal"},
		&Tag{ID: 36868, Name: "DateTimeDigitized"},
		&Tag{ID: 36880, Name: "OffsetTime"},
		&Tag{ID: 36881, Name: "OffsetTimeOriginal"},
		&Tag{ID: 36882, Name: "OffsetTimeDigitized"},
		&Tag{ID: 37121, Name: "ComponentsConfiguration", Format: formatByteList},
		&Tag{ID: 37122, Name: "CompressedBitsPerPixel"},
		&Tag{ID: 37377, Name: "ShutterSpeedValue"},
		&Tag{ID: 37378, Name: "ApertureValue"},
		&Tag{ID: 37379, Name: "BrightnessValue"},
		&Tag{ID: 37380, Name: "ExposureBiasValue"},
		&Tag{ID: 37381, Name: "MaxApertureValue"},
		&Tag{ID: 37382, Name: "SubjectDistance"},
		&Tag{ID: 37383, Name: "MeteringMode"},
		&Tag{ID: 37384, Name: "LightSource"},
		&Tag{ID: 37385, Name: "Flash"},
		&Tag{ID: 37386, Name: "FocalLength"},
		&Tag{ID: 37396, Name: "SubjectArea"},
		&Tag{ID: TagMakerNote, Name: "MakerNote", Format: formatMakerNote},
		&Tag{ID: 37510, Name: "UserComment"},
		&Tag{ID: 37520, Name: "SubSecTime"},
		&Tag{ID: 37521, Name: "SubSecTimeOriginal"},
		&Tag{ID: 37522, Name: "SubSecTimeDigitized"},
		&Tag{ID: 40960, Name: "FlashpixVersion", Format: formatEscaped},
		&Tag{ID: 40961, Name: "ColorSpace"},
		&Tag{ID: 40962, Name: "PixelXDimension"},
		&Tag{ID: 40963, Name: "PixelYDimension"},
		&Tag{ID: TagInteropIFD, Name: "Interoperability IFD", Sub: InteropSchema},
		&Tag{ID: 41486, Name: "FocalPlaneXResolution"},
		&Tag{ID: 41487, Name: "FocalPlaneYResolution"},
		&Tag{ID: 41488, Name: "FocalPlaneResolutionUnit"},
		&Tag{ID: 41495, Name: "SensingMethod"},
		&Tag{ID: 41728, Name: "FileSource", Format: formatByteList},
		&Tag{ID: 41729, Name: "SceneType", Format: formatByteList},
		&Tag{ID: 41730, Name: "CFAPattern"},
		&Tag{ID: 41985, Name: "CustomRendered"},
		&Tag{ID: 41986, Name: "ExposureMode"},
		&Tag{ID: 41987, Name: "WhiteBalance"},
		&Tag{ID: 41988, Name: "DigitalZoomRatio"},
		&Tag{ID: 41989, Name: "FocalLengthIn35mmFilm"},
		&Tag{ID: 41990, Name: "SceneCaptureType"},
		&Tag{ID: 41991, Name: "GainControl"},
		&Tag{ID: 41992, Name: "Contrast"},
		&Tag{ID: 41993, Name: "Saturation"},
		&Tag{ID: 41994, Name: "Sharpness"},
		&Tag{ID: 41996, Name: "SubjectDistanceRange"},
		&Tag{ID: 42016, Name: "ImageUniqueID"},
		&Tag{ID: 42032, Name: "CameraOwnerName"},
		&Tag{ID: 42033, Name: "BodySerialNumber"},
		&Tag{ID: 42034, Name: "LensSpecification", Format: formatCommaList},
		&Tag{ID: 42035, Name: "LensMake"},
		&Tag{ID: 42036, Name: "LensModel"},
		&Tag{ID: 42080, Name: "CompositeImage"},
		&Tag{ID: 42081, Name: "SourceImageNumberOfCompositeImage", Format: formatCommaList},
		&Tag{ID: 42082, Name: "SourceExposureTimesOfCompositeImage", Format: formatCommaList},
	)

	GPSSchema = newSchema(KindGPS, "GPS",
		&Tag{ID: 0, Name: "GPSVersionID", Format: formatDotted},
		&Tag{ID: 1, Name: "GPSLatitudeRef"},
		&Tag{ID: 2, Name: "GPSLatitude", Format: formatDegrees},
		&Tag{ID: 3, Name: "GPSLongitudeRef"},
		&Tag{ID: 4, Name: "GPSLongitude", Format: formatDegrees},
		&Tag{ID: 5, Name: "GPSAltitudeRef"},
		&Tag{ID: 6, Name: "GPSAltitude", Format: formatDecimal},
		&Tag{ID: 7, Name: "GPSTimeStamp", Format: formatClock},
		&Tag{ID: 8, Name: "GPSSatellites"},
		&Tag{ID: 9, Name: "GPSStatus"},
		&Tag{ID: 10, Name: "GPSMeasureMode"},
		&Tag{ID: 11, Name: "GPSDOP", Format: formatDecimal},
		&Tag{ID: 12, Name: "GPSSpeedRef"},
		&Tag{ID: 13, Name: "GPSSpeed", Format: formatDecimal},
		&Tag{ID: 14, Name: "GPSTrackRef"},
		&Tag{ID: 15, Name: "GPSTrack", Format: formatDecimal},
		&Tag{ID: 16, Name: "GPSImgDirectionRef"},
		&Tag{ID: 17, Name: "GPSImgDirection", Format: formatDecimal},
		&Tag{ID: 18, Name: "GPSMapDatum"},
		&Tag{ID: 19, Name: "GPSDestLatitudeRef"},
		&Tag{ID: 20, Name: "GPSDestLatitude", Format: formatDegrees},
		&Tag{ID: 21, Name: "GPSDestLongitudeRef"},
		&Tag{ID: 22, Name: "GPSDestLongitude", Format: formatDegrees},
		&Tag{ID: 23, Name: "GPSDestBearingRef"},
		&Tag{ID: 24, Name: "GPSDestBearing", Format: formatDecimal},
		&Tag{ID: 25, Name: "GPSDestDistanceRef"},
		&Tag{ID: 26, Name: "GPSDestDistance", Format: formatDecimal},
		&Tag{ID: 27, Name: "GPSProcessingMethod"},
		&Tag{ID: 28, Name: "GPSAreaInformation"},
		&Tag{ID: 29, Name: "GPSDateStamp"},
		&Tag{ID: 30, Name: "GPSDifferential"},
		&Tag{ID: 31, Name: "GPSHPositioningError", Format: formatDecimal},
	)

	RootSchema = newSchema(KindRoot, "IFD0",
		&Tag{ID: 256, Name: "ImageWidth"},
		&Tag{ID: 257, Name: "ImageLength"},
		&Tag{ID: 258, Name: "BitsPerSample"},
		&Tag{ID: 259, Name: "Compression"},
		&Tag{ID: 262, Name: "PhotometricInterpretation"},
		&Tag{ID: 270, Name: "ImageDescription"},
		&Tag{ID: 271, Name: "Make"},
		&Tag{ID: 272, Name: "Model"},
		&Tag{ID: 273, Name: "StripOffsets"},
		&Tag{ID: TagOrientation, Name: "Orientation"},
		&Tag{ID: 277, Name: "SamplesPerPixel"},
		&Tag{ID: 282, Name: "XResolution"},
		&Tag{ID: 283, Name: "YResolution"},
		&Tag{ID: 296, Name: "ResolutionUnit"},
		&Tag{ID: 305, Name: "Software"},
		&Tag{ID: TagDateTime, Name: "DateTime"},
		&Tag{ID: 315, Name: "Artist"},
		&Tag{ID: 316, Name: "HostComputer"},
		&Tag{ID: 513, Name: "JPEGInterchangeFormat"},
		&Tag{ID: 514, Name: "JPEGInterchangeFormatLength"},
		&Tag{ID: 531, Name: "YCbCrPositioning"},
		&Tag{ID: 33432, Name: "Copyright"},
		&Tag{ID: TagExifIFD, Name: "Exif IFD", Sub: ExifSchema},
		&Tag{ID: TagGPSIFD, Name: "GPS IFD", Sub: GPSSchema},
	)
)
