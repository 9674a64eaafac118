package parquet

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/xitongsys/parquet-go-source/local"
	xparquet "github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/turbolytics/lightcurves/internal/source"
)

// LightCurve is one row of a light-curve file as written by WriteLightCurves.
type LightCurve struct {
	SNID  int64  `parquet:"name=SNID, type=INT64"`
	Class string `parquet:"name=ELASTICC_class, type=BYTE_ARRAY, convertedtype=UTF8"`

	MJD        []float64 `parquet:"name=MJD, type=LIST, valuetype=DOUBLE"`
	Band       []string  `parquet:"name=BAND, type=LIST, valuetype=BYTE_ARRAY, valueconvertedtype=UTF8"`
	PhotFlag   []int64   `parquet:"name=PHOTFLAG, type=LIST, valuetype=INT64"`
	FluxCal    []float64 `parquet:"name=FLUXCAL, type=LIST, valuetype=DOUBLE"`
	FluxCalErr []float64 `parquet:"name=FLUXCALERR, type=LIST, valuetype=DOUBLE"`

	RA               float64 `parquet:"name=RA, type=DOUBLE"`
	Dec              float64 `parquet:"name=DEC, type=DOUBLE"`
	MWEBV            float64 `parquet:"name=MWEBV, type=DOUBLE"`
	MWEBVErr         float64 `parquet:"name=MWEBV_ERR, type=DOUBLE"`
	RedshiftHelio    float64 `parquet:"name=REDSHIFT_HELIO, type=DOUBLE"`
	RedshiftHelioErr float64 `parquet:"name=REDSHIFT_HELIO_ERR, type=DOUBLE"`
	VPec             float64 `parquet:"name=VPEC, type=DOUBLE"`
	VPecErr          float64 `parquet:"name=VPEC_ERR, type=DOUBLE"`

	HostRA        float64 `parquet:"name=HOSTGAL_RA, type=DOUBLE"`
	HostDec       float64 `parquet:"name=HOSTGAL_DEC, type=DOUBLE"`
	HostSNSep     float64 `parquet:"name=HOSTGAL_SNSEP, type=DOUBLE"`
	HostPhotoZ    float64 `parquet:"name=HOSTGAL_PHOTOZ, type=DOUBLE"`
	HostPhotoZErr float64 `parquet:"name=HOSTGAL_PHOTOZ_ERR, type=DOUBLE"`
	HostSpecZ     float64 `parquet:"name=HOSTGAL_SPECZ, type=DOUBLE"`
	HostSpecZErr  float64 `parquet:"name=HOSTGAL_SPECZ_ERR, type=DOUBLE"`
	HostFlag       float64 `parquet:"name=HOSTGAL_FLAG, type=DOUBLE"`
	HostDDLR       float64 `parquet:"name=HOSTGAL_DDLR, type=DOUBLE"`
	HostConfusion  float64 `parquet:"name=HOSTGAL_CONFUSION, type=DOUBLE"`
	HostLogMass    float64 `parquet:"name=HOSTGAL_LOGMASS, type=DOUBLE"`
	HostLogMassErr float64 `parquet:"name=HOSTGAL_LOGMASS_ERR, type=DOUBLE"`
	HostLogSFR     float64 `parquet:"name=HOSTGAL_LOGSFR, type=DOUBLE"`
	HostLogSFRErr  float64 `parquet:"name=HOSTGAL_LOGSFR_ERR, type=DOUBLE"`
	HostLogsSFR    float64 `parquet:"name=HOSTGAL_LOGsSFR, type=DOUBLE"`
	HostLogsSFRErr float64 `parquet:"name=HOSTGAL_LOGsSFR_ERR, type=DOUBLE"`
	HostColor      float64 `parquet:"name=HOSTGAL_COLOR, type=DOUBLE"`
	HostColorErr   float64 `parquet:"name=HOSTGAL_COLOR_ERR, type=DOUBLE"`

	HostMagU      float64 `parquet:"name=HOSTGAL_MAG_u, type=DOUBLE"`
	HostMagG      float64 `parquet:"name=HOSTGAL_MAG_g, type=DOUBLE"`
	HostMagR      float64 `parquet:"name=HOSTGAL_MAG_r, type=DOUBLE"`
	HostMagI      float64 `parquet:"name=HOSTGAL_MAG_i, type=DOUBLE"`
	HostMagZ      float64 `parquet:"name=HOSTGAL_MAG_z, type=DOUBLE"`
	HostMagY      float64 `parquet:"name=HOSTGAL_MAG_Y, type=DOUBLE"`

	// not a recognized feature; sources ignore it
	SimPeakMJD float64 `parquet:"name=SIM_PEAKMJD, type=DOUBLE"`
}

// WriteLightCurves writes curves to a local parquet file at path.
func WriteLightCurves(path string, curves []LightCurve) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer fw.Close()

	pw, err := writer.NewParquetWriter(fw, new(LightCurve), 1)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	pw.CompressionType = xparquet.CompressionCodec_SNAPPY

	for i := range curves {
		if err := pw.Write(curves[i]); err != nil {
			return fmt.Errorf("failed to write light curve %d: %w", curves[i].SNID, err)
		}
	}

	return pw.WriteStop()
}

// GenerateLightCurves builds n synthetic light curves. Each has a gaussian
// flux bump observed at random epochs across all bands; points above five
// sigma carry the detection bit.
func GenerateLightCurves(n int, seed int64, classes []string) []LightCurve {
	rng := rand.New(rand.NewSource(seed))

	curves := make([]LightCurve, n)
	for i := range curves {
		peak := 60000 + rng.Float64()*365
		width := 5 + rng.Float64()*30
		amplitude := 50 + rng.Float64()*1000
		nobs := 5 + rng.Intn(36)

		mjd := make([]float64, nobs)
		for j := range mjd {
			mjd[j] = peak - 60 + rng.Float64()*180
		}
		sort.Float64s(mjd)

		lc := LightCurve{
			SNID:             int64(1000 + i),
			Class:            classes[rng.Intn(len(classes))],
			MJD:              mjd,
			Band:             make([]string, nobs),
			PhotFlag:         make([]int64, nobs),
			FluxCal:          make([]float64, nobs),
			FluxCalErr:       make([]float64, nobs),
			RA:               rng.Float64() * 360,
			Dec:              rng.Float64()*180 - 90,
			MWEBV:            rng.Float64() * 0.2,
			MWEBVErr:         0.01,
			RedshiftHelio:    0.01 + rng.Float64(),
			RedshiftHelioErr: 0.001,
			VPec:             rng.NormFloat64() * 300,
			VPecErr:          300,
			HostSNSep:        rng.Float64() * 5,
			HostPhotoZ:       0.01 + rng.Float64(),
			HostPhotoZErr:    0.05,
			HostSpecZ:        -9,
			HostSpecZErr:     -9,
			HostFlag:         0,
			HostDDLR:         rng.Float64() * 4,
			HostConfusion:    -99,
			HostLogMass:      8 + rng.Float64()*4,
			HostLogMassErr:   0.1,
			HostLogSFR:       -2 + rng.Float64()*3,
			HostLogSFRErr:    0.2,
			HostColor:        rng.Float64() * 1.5,
			HostColorErr:     0.05,
			SimPeakMJD:       peak,
		}
		lc.HostLogsSFR = lc.HostLogSFR - lc.HostLogMass
		lc.HostLogsSFRErr = 0.25
		lc.HostRA = lc.RA + rng.NormFloat64()*1e-3
		lc.HostDec = lc.Dec + rng.NormFloat64()*1e-3
		lc.HostMagU, lc.HostMagG, lc.HostMagR = 24+rng.Float64(), 23+rng.Float64(), 22+rng.Float64()
		lc.HostMagI, lc.HostMagZ, lc.HostMagY = 22+rng.Float64(), 21+rng.Float64(), 21+rng.Float64()

		for j, t := range mjd {
			errFlux := 5 + rng.Float64()*15
			flux := amplitude*math.Exp(-0.5*math.Pow((t-peak)/width, 2)) + rng.NormFloat64()*errFlux

			lc.Band[j] = source.Bands[rng.Intn(len(source.Bands))]
			lc.FluxCal[j] = flux
			lc.FluxCalErr[j] = errFlux
			if flux/errFlux > 5 {
				lc.PhotFlag[j] = source.DetectionBit
			}
		}
		curves[i] = lc
	}
	return curves
}
