package services_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/epeers/reservoirs/internal/conagua"
	"github.com/epeers/reservoirs/internal/models"
	"github.com/epeers/reservoirs/internal/repository"
	"github.com/epeers/reservoirs/internal/services"
	"github.com/epeers/reservoirs/internal/timeseries"
)

func ptr(v float64) *float64 { return &v }

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func datePtr(s string) *time.Time {
	t := date(s)
	return &t
}

func reading(id, day string, vol, fill float64) timeseries.RawReading {
	return timeseries.RawReading{
		Date:          day,
		ReservoirID:   id,
		ReservoirName: "Presa " + id,
		CurrentVolume: ptr(vol),
		FillFraction:  ptr(fill),
	}
}

// fakeSource serves readings from memory and satisfies both ReadingSource
// and the repository interfaces of ReadingService.
type fakeSource struct {
	mu       sync.Mutex
	data     map[string][]timeseries.RawReading
	known    map[string]bool
	failures map[string]error
	calls    map[string]int
	capacity map[string]float64
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		data:     map[string][]timeseries.RawReading{},
		known:    map[string]bool{},
		failures: map[string]error{},
		calls:    map[string]int{},
		capacity: map[string]float64{},
	}
}

func (f *fakeSource) add(rs ...timeseries.RawReading) {
	for _, r := range rs {
		f.data[r.ReservoirID] = append(f.data[r.ReservoirID], r)
		f.known[r.ReservoirID] = true
	}
}

func (f *fakeSource) GetReadings(_ context.Context, id string, start, end *time.Time) ([]timeseries.RawReading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[id]++
	if err := f.failures[id]; err != nil {
		return nil, err
	}
	var out []timeseries.RawReading
	for _, r := range f.data[id] {
		if start != nil && r.Date < timeseries.FormatDate(*start) {
			continue
		}
		if end != nil && r.Date > timeseries.FormatDate(*end) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeSource) GetLatest(_ context.Context, id string) (*timeseries.RawReading, error) {
	rs := f.data[id]
	if len(rs) == 0 {
		return nil, nil
	}
	r := rs[len(rs)-1]
	return &r, nil
}

func (f *fakeSource) GetReservoir(_ context.Context, id string) (*models.Reservoir, error) {
	if !f.known[id] {
		return nil, services.ErrReservoirNotFound
	}
	res := &models.Reservoir{ID: id, CommonName: "Presa " + id}
	if c, ok := f.capacity[id]; ok {
		res.NAMOStorage = ptr(c)
	}
	return res, nil
}

func (f *fakeSource) GetByID(ctx context.Context, id string) (*models.Reservoir, error) {
	return f.GetReservoir(ctx, id)
}

func (f *fakeSource) ListStates(context.Context) ([]string, error) {
	return []string{"Jalisco", "Michoacán"}, nil
}

func (f *fakeSource) ListByState(_ context.Context, state string) ([]models.ReservoirRef, error) {
	return []models.ReservoirRef{{ID: "LDCJL", Name: "Chapala"}}, nil
}

func (f *fakeSource) callCount(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[id]
}

// fakeUpstream serves raw report bodies by date.
type fakeUpstream struct {
	reports map[string]string
	failing map[string]bool
	calls   []string
}

func (f *fakeUpstream) FetchReport(_ context.Context, d time.Time) ([]byte, error) {
	day := timeseries.FormatDate(d)
	f.calls = append(f.calls, day)
	if f.failing[day] {
		return nil, errors.New("connection reset")
	}
	body, ok := f.reports[day]
	if !ok {
		return nil, conagua.ErrNoReport
	}
	return []byte(body), nil
}

type fakeArchive struct {
	objects map[string][]byte
	putErr  error
}

func (f *fakeArchive) Get(_ context.Context, d time.Time) ([]byte, bool, error) {
	b, ok := f.objects[timeseries.FormatDate(d)]
	return b, ok, nil
}

func (f *fakeArchive) Put(_ context.Context, d time.Time, data []byte) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.objects[timeseries.FormatDate(d)] = data
	return nil
}

// fakeStore records what the ingest service writes.
type fakeStore struct {
	reservoirs map[string]models.Reservoir
	overwrites []bool
	rows       []models.ReadingRow
	rng        *repository.IngestRange
}

func newFakeStore() *fakeStore {
	return &fakeStore{reservoirs: map[string]models.Reservoir{}}
}

func (f *fakeStore) UpsertReservoirs(_ context.Context, rs []models.Reservoir, overwrite bool) error {
	f.overwrites = append(f.overwrites, overwrite)
	for _, r := range rs {
		if _, ok := f.reservoirs[r.ID]; ok && !overwrite {
			continue
		}
		f.reservoirs[r.ID] = r
	}
	return nil
}

func (f *fakeStore) UpsertReadings(_ context.Context, rows []models.ReadingRow) error {
	f.rows = append(f.rows, rows...)
	return nil
}

func (f *fakeStore) GetIngestRange(context.Context) (*repository.IngestRange, error) {
	if f.rng == nil {
		return nil, nil
	}
	r := *f.rng
	return &r, nil
}

func (f *fakeStore) UpsertIngestRange(_ context.Context, start, end time.Time) error {
	if f.rng == nil {
		f.rng = &repository.IngestRange{StartDate: start, EndDate: end}
		return nil
	}
	if start.Before(f.rng.StartDate) {
		f.rng.StartDate = start
	}
	if end.After(f.rng.EndDate) {
		f.rng.EndDate = end
	}
	return nil
}

type countingInvalidator struct{ n int }

func (c *countingInvalidator) Invalidate(context.Context) error {
	c.n++
	return nil
}

func reportBody(day string, ids ...string) string {
	s := "["
	for i, id := range ids {
		if i > 0 {
			s += ","
		}
		s += fmt.Sprintf(`{"fechamonitoreo":%q,"clavesih":%q,"nombrecomun":"Presa %s","estado":"Jalisco",`+
			`"namoalmac":"100","almacenaactual":%d,"llenano":0.5,"elevacionactual":""}`, day, id, id, 40+i)
	}
	return s + "]"
}
