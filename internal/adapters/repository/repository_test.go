package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/internsim/internal/domain/model"
)

const corpusJSON = `[
  {"id":"r1","company":"Acme","role":"Frontend Intern","category":"Frontend & UI/UX","location":"Bangalore","remoteMode":"Remote","stipendMin":10000,"stipendMax":20000,"durationMonths":3,"skills":["React","JavaScript"]},
  {"id":"r2","company":"DataCo","role":"ML Intern","category":"Data & AI","location":"Pune","remoteMode":"Onsite","stipendMin":15000,"stipendMax":25000,"durationMonths":6,"skills":["Python","ML"]}
]`

func writeCorpus(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write corpus: %v", err)
	}
	return path
}

type countingLoader struct {
	calls   atomic.Int32
	records []model.OpportunityRecord
	err     error
}

func (c *countingLoader) Load(context.Context) ([]model.OpportunityRecord, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return c.records, nil
}

func TestFileLoader(t *testing.T) {
	ctx := context.Background()

	Convey("Given a corpus file", t, func() {
		Convey("valid records are decoded and categories parsed", func() {
			records, err := NewFileLoader(writeCorpus(t, corpusJSON)).Load(ctx)
			So(err, ShouldBeNil)
			So(records, ShouldHaveLength, 2)
			So(records[0].ID, ShouldEqual, "r1")
			So(records[0].Category, ShouldEqual, model.CategoryFrontend)
			So(records[1].Category, ShouldEqual, model.CategoryDataAI)
			So(records[1].Skills, ShouldResemble, []string{"Python", "ML"})
		})

		Convey("an unknown category falls back to Other", func() {
			records, err := NewFileLoader(writeCorpus(t, `[{"id":"x","category":"Gardening","stipendMin":1,"stipendMax":2}]`)).Load(ctx)
			So(err, ShouldBeNil)
			So(records[0].Category, ShouldEqual, model.CategoryOther)
		})

		Convey("inverted stipend range is rejected", func() {
			_, err := NewFileLoader(writeCorpus(t, `[{"id":"x","stipendMin":5,"stipendMax":2}]`)).Load(ctx)
			So(errors.Is(err, ErrInvalidRecord), ShouldBeTrue)
		})

		Convey("missing ids are rejected", func() {
			_, err := NewFileLoader(writeCorpus(t, `[{"company":"x"}]`)).Load(ctx)
			So(errors.Is(err, ErrInvalidRecord), ShouldBeTrue)
		})

		Convey("malformed JSON is an error", func() {
			_, err := NewFileLoader(writeCorpus(t, `{`)).Load(ctx)
			So(err, ShouldNotBeNil)
		})

		Convey("a missing file is an error", func() {
			_, err := NewFileLoader(filepath.Join(t.TempDir(), "nope.json")).Load(ctx)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestSnapshotStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given a snapshot store", t, func() {
		loader := &countingLoader{records: []model.OpportunityRecord{{ID: "a", StipendMax: 1}}}
		store := NewSnapshotStore(loader)
		defer store.Close()

		Convey("the first snapshot loads once and is then reused", func() {
			c1, err := store.Snapshot(ctx)
			So(err, ShouldBeNil)
			c2, err := store.Snapshot(ctx)
			So(err, ShouldBeNil)
			So(c1.Version, ShouldEqual, c2.Version)
			So(c1.Records, ShouldHaveLength, 1)
			So(loader.calls.Load(), ShouldEqual, 1)
		})

		Convey("refresh publishes new content with a new version", func() {
			c1, _ := store.Snapshot(ctx)
			loader.records = []model.OpportunityRecord{{ID: "a", StipendMax: 1}, {ID: "b", StipendMax: 2}}
			So(store.Refresh(ctx), ShouldBeNil)
			c2, _ := store.Snapshot(ctx)
			So(c2.Records, ShouldHaveLength, 2)
			So(c2.Version, ShouldNotEqual, c1.Version)
		})

		Convey("a failing refresh keeps the previous snapshot", func() {
			c1, _ := store.Snapshot(ctx)
			loader.err = errors.New("boom")
			err := store.Refresh(ctx)
			So(errors.Is(err, ErrLoad), ShouldBeTrue)
			c2, err := store.Snapshot(ctx)
			So(err, ShouldBeNil)
			So(c2.Version, ShouldEqual, c1.Version)
		})

		Convey("a failing first load surfaces the error", func() {
			failing := NewSnapshotStore(&countingLoader{err: errors.New("down")})
			_, err := failing.Snapshot(ctx)
			So(errors.Is(err, ErrLoad), ShouldBeTrue)
		})
	})

	Convey("Periodic refresh reloads in the background", t, func() {
		loader := &countingLoader{}
		store := NewSnapshotStore(loader, WithRefreshInterval(5*time.Millisecond))
		store.Start(ctx)

		deadline := time.Now().Add(time.Second)
		for loader.calls.Load() < 2 && time.Now().Before(deadline) {
			time.Sleep(2 * time.Millisecond)
		}
		So(store.Close(), ShouldBeNil)
		So(loader.calls.Load(), ShouldBeGreaterThanOrEqualTo, 2)
	})
}
