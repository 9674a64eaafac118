package source

import "fmt"

const (
	ColumnID    = "SNID"
	ColumnClass = "ELASTICC_class"

	ColumnMJD        = "MJD"
	ColumnBand       = "BAND"
	ColumnPhotFlag   = "PHOTFLAG"
	ColumnFluxCal    = "FLUXCAL"
	ColumnFluxCalErr = "FLUXCALERR"
)

// DetectionBit is the PHOTFLAG bit set on confirmed detections.
const DetectionBit int64 = 1 << 12

// Bands are the LSST passbands in wavelength order.
var Bands = [...]string{"u", "g", "r", "i", "z", "Y"}

// ZPhotQuantiles are the host photo-z quantiles carried as HOSTGAL_ZPHOT_Qxxx.
var ZPhotQuantiles = [...]int{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100}

// Static holds the non time-varying attributes of a source and its host galaxy.
type Static struct {
	RA  float64
	Dec float64

	MWEBV    float64
	MWEBVErr float64

	RedshiftHelio    float64
	RedshiftHelioErr float64
	VPec             float64
	VPecErr          float64

	HostFlag       float64
	HostPhotoZ     float64
	HostPhotoZErr  float64
	HostSpecZ      float64
	HostSpecZErr   float64
	HostRA         float64
	HostDec        float64
	HostSNSep      float64
	HostDDLR       float64
	HostConfusion  float64
	HostLogMass    float64
	HostLogMassErr float64
	HostLogSFR     float64
	HostLogSFRErr  float64
	HostLogsSFR    float64
	HostLogsSFRErr float64
	HostColor      float64
	HostColorErr   float64

	HostEllipticity float64
	HostSqRadius    float64

	// indexed like Bands
	HostMag    [len(Bands)]float64
	HostMagErr [len(Bands)]float64

	// indexed like ZPhotQuantiles
	HostZPhotQ [len(ZPhotQuantiles)]float64
}

type staticFeature struct {
	name  string
	field func(*Static) *float64
}

type seriesFeature struct {
	name string
	set  func(*Source, []any) error
	len  func(*Source) int
}

var staticFeatures = newStaticFeatures()

var seriesFeatures = []seriesFeature{
	{
		name: ColumnMJD,
		set: func(s *Source, vs []any) (err error) {
			s.MJD, err = floats(vs)
			return err
		},
		len: func(s *Source) int { return len(s.MJD) },
	},
	{
		name: ColumnBand,
		set: func(s *Source, vs []any) (err error) {
			s.Band, err = stringsOf(vs)
			return err
		},
		len: func(s *Source) int { return len(s.Band) },
	},
	{
		name: ColumnPhotFlag,
		set: func(s *Source, vs []any) (err error) {
			s.PhotFlag, err = ints(vs)
			return err
		},
		len: func(s *Source) int { return len(s.PhotFlag) },
	},
	{
		name: ColumnFluxCal,
		set: func(s *Source, vs []any) (err error) {
			s.FluxCal, err = floats(vs)
			return err
		},
		len: func(s *Source) int { return len(s.FluxCal) },
	},
	{
		name: ColumnFluxCalErr,
		set: func(s *Source, vs []any) (err error) {
			s.FluxCalErr, err = floats(vs)
			return err
		},
		len: func(s *Source) int { return len(s.FluxCalErr) },
	},
}

func newStaticFeatures() []staticFeature {
	fs := []staticFeature{
		{"RA", func(s *Static) *float64 { return &s.RA }},
		{"DEC", func(s *Static) *float64 { return &s.Dec }},
		{"MWEBV", func(s *Static) *float64 { return &s.MWEBV }},
		{"MWEBV_ERR", func(s *Static) *float64 { return &s.MWEBVErr }},
		{"REDSHIFT_HELIO", func(s *Static) *float64 { return &s.RedshiftHelio }},
		{"REDSHIFT_HELIO_ERR", func(s *Static) *float64 { return &s.RedshiftHelioErr }},
		{"VPEC", func(s *Static) *float64 { return &s.VPec }},
		{"VPEC_ERR", func(s *Static) *float64 { return &s.VPecErr }},
		{"HOSTGAL_FLAG", func(s *Static) *float64 { return &s.HostFlag }},
		{"HOSTGAL_PHOTOZ", func(s *Static) *float64 { return &s.HostPhotoZ }},
		{"HOSTGAL_PHOTOZ_ERR", func(s *Static) *float64 { return &s.HostPhotoZErr }},
		{"HOSTGAL_SPECZ", func(s *Static) *float64 { return &s.HostSpecZ }},
		{"HOSTGAL_SPECZ_ERR", func(s *Static) *float64 { return &s.HostSpecZErr }},
		{"HOSTGAL_RA", func(s *Static) *float64 { return &s.HostRA }},
		{"HOSTGAL_DEC", func(s *Static) *float64 { return &s.HostDec }},
		{"HOSTGAL_SNSEP", func(s *Static) *float64 { return &s.HostSNSep }},
		{"HOSTGAL_DDLR", func(s *Static) *float64 { return &s.HostDDLR }},
		{"HOSTGAL_CONFUSION", func(s *Static) *float64 { return &s.HostConfusion }},
		{"HOSTGAL_LOGMASS", func(s *Static) *float64 { return &s.HostLogMass }},
		{"HOSTGAL_LOGMASS_ERR", func(s *Static) *float64 { return &s.HostLogMassErr }},
		{"HOSTGAL_LOGSFR", func(s *Static) *float64 { return &s.HostLogSFR }},
		{"HOSTGAL_LOGSFR_ERR", func(s *Static) *float64 { return &s.HostLogSFRErr }},
		{"HOSTGAL_LOGsSFR", func(s *Static) *float64 { return &s.HostLogsSFR }},
		{"HOSTGAL_LOGsSFR_ERR", func(s *Static) *float64 { return &s.HostLogsSFRErr }},
		{"HOSTGAL_COLOR", func(s *Static) *float64 { return &s.HostColor }},
		{"HOSTGAL_COLOR_ERR", func(s *Static) *float64 { return &s.HostColorErr }},
		{"HOSTGAL_ELLIPTICITY", func(s *Static) *float64 { return &s.HostEllipticity }},
	}
	for i, band := range Bands {
		fs = append(fs, staticFeature{
			"HOSTGAL_MAG_" + band,
			func(s *Static) *float64 { return &s.HostMag[i] },
		})
	}
	for i, band := range Bands {
		fs = append(fs, staticFeature{
			"HOSTGAL_MAGERR_" + band,
			func(s *Static) *float64 { return &s.HostMagErr[i] },
		})
	}
	fs = append(fs, staticFeature{"HOSTGAL_SQRADIUS", func(s *Static) *float64 { return &s.HostSqRadius }})
	for i, q := range ZPhotQuantiles {
		fs = append(fs, staticFeature{
			fmt.Sprintf("HOSTGAL_ZPHOT_Q%03d", q),
			func(s *Static) *float64 { return &s.HostZPhotQ[i] },
		})
	}
	return fs
}

// StaticFeatureNames returns the recognized static columns in canonical order.
func StaticFeatureNames() []string {
	names := make([]string, len(staticFeatures))
	for i, f := range staticFeatures {
		names[i] = f.name
	}
	return names
}

// TimeSeriesFeatureNames returns the recognized time-series columns in canonical order.
func TimeSeriesFeatureNames() []string {
	names := make([]string, len(seriesFeatures))
	for i, f := range seriesFeatures {
		names[i] = f.name
	}
	return names
}

// Role describes how a column is treated when a source is built.
type Role string

const (
	RoleIdentity   Role = "identity"
	RoleClass      Role = "class"
	RoleTimeSeries Role = "time_series"
	RoleStatic     Role = "static"
	RoleIgnored    Role = "ignored"
)

// ColumnRole reports the role of the named column.
func ColumnRole(column string) Role {
	switch column {
	case ColumnID:
		return RoleIdentity
	case ColumnClass:
		return RoleClass
	}
	for _, f := range seriesFeatures {
		if f.name == column {
			return RoleTimeSeries
		}
	}
	for _, f := range staticFeatures {
		if f.name == column {
			return RoleStatic
		}
	}
	return RoleIgnored
}
