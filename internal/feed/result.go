package feed

import (
	"github.com/Houeta/pulsemarket/internal/filter"
	"github.com/Houeta/pulsemarket/internal/models"
)

// Status tags a Result.
type Status int

const (
	Idle Status = iota
	Loading
	Populated
	Empty
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Populated:
		return "populated"
	case Empty:
		return "empty"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the feed as last applied by the coordinator.
type Result struct {
	Status Status
	// Seq is the request sequence number the result answers.
	Seq uint64
	// Filters is the state the request was built from.
	Filters filter.State
	Page    models.ProductPage
	Err     error
}

// Items returns the products of a populated result and nil otherwise.
func (r Result) Items() []models.Product {
	if r.Status != Populated {
		return nil
	}
	return r.Page.Items
}

// TotalPages returns the page count reported with the result.
func (r Result) TotalPages() int {
	if r.Status != Populated {
		return 0
	}
	return r.Page.TotalPages
}

// Settled reports whether the result is final for its request.
func (r Result) Settled() bool {
	return r.Status == Populated || r.Status == Empty || r.Status == Failed
}

func settle(seq uint64, filters filter.State, page *models.ProductPage, err error) Result {
	res := Result{Seq: seq, Filters: filters}
	switch {
	case err != nil:
		res.Status = Failed
		res.Err = err
	case page == nil || len(page.Items) == 0:
		res.Status = Empty
	default:
		res.Status = Populated
		res.Page = *page
	}
	return res
}
