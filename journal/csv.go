package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"github.com/rustyeddy/forward415/operation"
)

var (
	runsHeader = []string{
		"run_id", "created", "counterparty_id", "cutoff_date", "conversion_factor", "default_fc",
		"existing", "simulated", "total_vne", "total_vr", "pfe", "mgp", "crp", "total",
		"outstanding", "credit_limit", "available",
	}
	operationsHeader = []string{
		"run_id", "deal_id", "counterparty_id", "simulated", "direction", "notional",
		"spot", "forward_points", "fx_rate", "maturity_date", "term", "fair_value", "priced",
		"conversion_factor", "time_factor", "vne", "epfp", "vr",
	}
)

// CSV appends runs and their operations to two files. A header row is
// written only when a file starts empty.
type CSV struct {
	runs       *csv.Writer
	operations *csv.Writer
	rf, of     *os.File
}

func NewCSV(runsPath, operationsPath string) (*CSV, error) {
	rf, err := openAppend(runsPath)
	if err != nil {
		return nil, err
	}
	of, err := openAppend(operationsPath)
	if err != nil {
		_ = rf.Close()
		return nil, err
	}

	j := &CSV{csv.NewWriter(rf), csv.NewWriter(of), rf, of}
	for _, h := range []struct {
		f   *os.File
		w   *csv.Writer
		row []string
	}{
		{rf, j.runs, runsHeader},
		{of, j.operations, operationsHeader},
	} {
		info, err := h.f.Stat()
		if err == nil && info.Size() == 0 {
			err = j.write(h.w, h.row)
		}
		if err != nil {
			_ = j.Close()
			return nil, err
		}
	}
	return j, nil
}

func openAppend(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

func (j *CSV) RecordRun(r Run) error {
	return j.write(j.runs, []string{
		r.RunID,
		r.Created.UTC().Format(time.RFC3339),
		r.CounterpartyID,
		dateString(r.CutoffDate),
		r.ConversionFactor.String(),
		strconv.FormatBool(r.DefaultFC),
		strconv.Itoa(r.Existing),
		strconv.Itoa(r.Simulated),
		r.TotalNotionalEquivalent.String(),
		r.TotalMarketValue.String(),
		r.PotentialFutureExposure.String(),
		r.MarketGainPotential.String(),
		r.CurrentReplacementPrice.String(),
		r.Total.String(),
		r.Outstanding.String(),
		r.Limit.String(),
		r.Available.String(),
	})
}

func (j *CSV) RecordOperation(runID string, rec operation.Record) error {
	return j.write(j.operations, []string{
		runID,
		rec.DealID,
		rec.CounterpartyID,
		strconv.FormatBool(rec.Simulated),
		string(rec.Direction),
		rec.ActiveNotional().String(),
		rec.Spot.String(),
		rec.ForwardPoints.String(),
		rec.FXRate.String(),
		dateString(rec.MaturityDate),
		strconv.Itoa(rec.Term),
		rec.FairValue.String(),
		strconv.FormatBool(rec.Priced),
		rec.ConversionFactor.String(),
		rec.TimeFactor.String(),
		rec.NotionalEquivalent.String(),
		rec.PotentialFutureExposure.String(),
		rec.MarketValue.String(),
	})
}

func (j *CSV) write(w *csv.Writer, row []string) error {
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func (j *CSV) Close() error {
	j.runs.Flush()
	j.operations.Flush()

	var firstErr error
	for _, err := range []error{
		j.runs.Error(),
		j.operations.Error(),
		j.rf.Close(),
		j.of.Close(),
	} {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
