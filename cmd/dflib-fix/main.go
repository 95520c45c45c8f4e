// Command dflib-fix is the Go analogue of testlsDF_ll.cpp: given a
// transmitter location and a list of receiver stations read from stdin, it
// synthesizes true bearings, perturbs them with Gaussian noise, and
// reports the Fix-Cut Average, Least Squares, Stansfield and Maximum
// Likelihood fixes.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/tvrusso/dflib/collection"
	"github.com/tvrusso/dflib/dms"
	"github.com/tvrusso/dflib/gaussian"
	"github.com/tvrusso/dflib/point"
	"github.com/tvrusso/dflib/report"
)

// tuning holds the parameters testlsDF_ll.cpp hardcodes; here they are
// overridable via a .env file, falling back to these defaults when absent
// or unset, mirroring how hazinudin-bm-lrs's lrs-server loads its DB
// connection parameters.
type tuning struct {
	minCutAngleDegrees float64
	stansfieldTol      float64
	stansfieldMaxIter  int
}

func defaultTuning() tuning {
	return tuning{
		minCutAngleDegrees: 0,
		stansfieldTol:      1e-3,
		stansfieldMaxIter:  50,
	}
}

func loadTuning() tuning {
	t := defaultTuning()
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: .env file not found, using built-in defaults: %v", err)
		return t
	}
	if v, ok := os.LookupEnv("DFLIB_MIN_CUT_ANGLE_DEGREES"); ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			t.minCutAngleDegrees = parsed
		} else {
			log.Printf("warning: DFLIB_MIN_CUT_ANGLE_DEGREES=%q invalid, keeping default %v", v, t.minCutAngleDegrees)
		}
	}
	if v, ok := os.LookupEnv("DFLIB_STANSFIELD_TOLERANCE"); ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			t.stansfieldTol = parsed
		} else {
			log.Printf("warning: DFLIB_STANSFIELD_TOLERANCE=%q invalid, keeping default %v", v, t.stansfieldTol)
		}
	}
	if v, ok := os.LookupEnv("DFLIB_STANSFIELD_MAX_ITER"); ok {
		if parsed, err := strconv.Atoi(v); err == nil {
			t.stansfieldMaxIter = parsed
		} else {
			log.Printf("warning: DFLIB_STANSFIELD_MAX_ITER=%q invalid, keeping default %v", v, t.stansfieldMaxIter)
		}
	}
	return t
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s <trans lon DMS> <trans lat DMS>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  Pipe a list of receiver \"lon lat sigma_degrees\" lines into stdin.\n")
	}
	flag.Parse()
	if flag.NArg() < 2 {
		flag.Usage()
		os.Exit(1)
	}

	t := loadTuning()

	lonRad, err := dms.Parse(flag.Arg(0))
	if err != nil {
		log.Fatalf("bad transmitter longitude: %v", err)
	}
	latRad, err := dms.Parse(flag.Arg(1))
	if err != nil {
		log.Fatalf("bad transmitter latitude: %v", err)
	}
	const radToDeg = 180.0 / 3.14159265358979323846
	transmitterDegrees := [2]float64{lonRad * radToDeg, latRad * radToDeg}

	transPoint, err := point.New(transmitterDegrees, []string{"proj=longlat"})
	if err != nil {
		log.Fatalf("building transmitter point: %v", err)
	}
	defer transPoint.Close()
	transXY, err := transPoint.GetXY()
	if err != nil {
		log.Fatalf("projecting transmitter: %v", err)
	}
	log.Printf("transmitter at lon=%.6f lat=%.6f -> mercator X=%.2f Y=%.2f",
		transmitterDegrees[0], transmitterDegrees[1], transXY[0], transXY[1])

	coll := collection.New(collection.OwnReports)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			log.Printf("skipping malformed receiver line %q (want \"lon lat sigma_degrees\")", line)
			continue
		}

		rxLonRad, err := dms.Parse(fields[0])
		if err != nil {
			log.Printf("skipping receiver line %q: bad longitude: %v", line, err)
			continue
		}
		rxLatRad, err := dms.Parse(fields[1])
		if err != nil {
			log.Printf("skipping receiver line %q: bad latitude: %v", line, err)
			continue
		}
		sigmaDegrees, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			log.Printf("skipping receiver line %q: bad sigma: %v", line, err)
			continue
		}

		rxDegrees := [2]float64{rxLonRad * radToDeg, rxLatRad * radToDeg}
		name := fmt.Sprintf("rx%d", coll.Size())

		rep, err := report.NewLatLon(rxDegrees, 0, sigmaDegrees, name)
		if err != nil {
			log.Printf("skipping receiver %s: %v", name, err)
			continue
		}

		trueBearing, err := rep.ComputeBearingToPoint(transXY)
		if err != nil {
			log.Printf("skipping receiver %s: %v", name, err)
			continue
		}
		trueBearingDegrees := trueBearing * radToDeg

		noise := gaussian.New(0, sigmaDegrees)
		noisyBearing := trueBearingDegrees + noise.Sample()
		rep.SetBearing(noisyBearing * (1.0 / radToDeg))

		log.Printf("receiver %s: lon=%.6f lat=%.6f sigma=%.3f true bearing=%.3f noisy bearing=%.3f",
			name, rxDegrees[0], rxDegrees[1], sigmaDegrees, trueBearingDegrees, noisyBearing)

		coll.AddReport(rep)
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("reading receivers: %v", err)
	}

	if coll.NumValidReports() < 2 {
		log.Fatalf("need at least 2 valid receivers, got %d", coll.NumValidReports())
	}

	reportFix := func(name string, xy [2]float64) {
		fixPoint, err := point.New([2]float64{0, 0}, []string{"proj=longlat"})
		if err != nil {
			log.Printf("%s: building scratch point: %v", name, err)
			return
		}
		defer fixPoint.Close()
		fixPoint.SetXY(xy)
		userCoords, err := fixPoint.GetUserCoords()
		if err != nil {
			log.Printf("%s: reprojecting fix: %v", name, err)
			return
		}
		log.Printf("%s fix: mercator X=%.2f Y=%.2f  lon=%.6f lat=%.6f", name, xy[0], xy[1], userCoords[0], userCoords[1])
	}

	lsTarget, err := point.New([2]float64{0, 0}, []string{"proj=longlat"})
	if err != nil {
		log.Fatalf("building LS target point: %v", err)
	}
	defer lsTarget.Close()
	if err := coll.LeastSquaresFix(lsTarget); err != nil {
		log.Printf("least squares fix failed: %v", err)
	} else {
		xy, _ := lsTarget.GetXY()
		reportFix("LS", xy)
	}

	fcaTarget, err := point.New([2]float64{0, 0}, []string{"proj=longlat"})
	if err != nil {
		log.Fatalf("building FCA target point: %v", err)
	}
	defer fcaTarget.Close()
	stddev, numPairs, ok, err := coll.FixCutAverage(fcaTarget, t.minCutAngleDegrees)
	if err != nil {
		log.Printf("fix-cut average failed: %v", err)
	} else if !ok {
		log.Printf("fix-cut average: no qualifying pair of bearings (min cut angle %.1f degrees)", t.minCutAngleDegrees)
	} else {
		xy, _ := fcaTarget.GetXY()
		reportFix("FCA", xy)
		log.Printf("FCA: %d contributing pairs, stddev=(%.2f, %.2f) meters", numPairs, stddev[0], stddev[1])
	}

	stTarget, err := point.New([2]float64{0, 0}, []string{"proj=longlat"})
	if err != nil {
		log.Fatalf("building Stansfield target point: %v", err)
	}
	defer stTarget.Close()
	aInvSq, bInvSq, phi, err := coll.StansfieldFixWithTolerance(stTarget, t.stansfieldTol, t.stansfieldMaxIter)
	if err != nil {
		log.Printf("stansfield fix failed: %v", err)
	} else {
		xy, _ := stTarget.GetXY()
		reportFix("Stansfield", xy)
		log.Printf("Stansfield ellipse: a^-2=%.6g b^-2=%.6g phi=%.4f rad", aInvSq, bInvSq, phi)
	}

	mlTarget, err := point.New([2]float64{0, 0}, []string{"proj=longlat"})
	if err != nil {
		log.Fatalf("building ML target point: %v", err)
	}
	defer mlTarget.Close()
	if err := coll.MLFix(mlTarget); err != nil {
		log.Printf("ML fix failed: %v", err)
	} else {
		xy, _ := mlTarget.GetXY()
		reportFix("ML", xy)

		if crAInvSq, crBInvSq, crPhi, err := coll.CramerRaoBounds(mlTarget); err != nil {
			log.Printf("cramer-rao bound failed: %v", err)
		} else {
			log.Printf("Cramer-Rao ellipse: a^-2=%.6g b^-2=%.6g phi=%.4f rad", crAInvSq, crBInvSq, crPhi)
		}
	}
}
