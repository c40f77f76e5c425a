package radmin

import (
	"context"
	"errors"
	"fmt"

	"github.com/zkiln/radmin/catalog"
	"github.com/zkiln/radmin/pxtr"
	"github.com/zkiln/radmin/storage"
	"github.com/zkiln/radmin/util"
	"github.com/zkiln/radmin/util/log"
)

/*
ReplayService answers profile extract calls from captured records. The
catalog resolves a class and profile name to an object id and the storage
provider holds the record bytes, so a capture taken from a live system can be
served anywhere. Profiles the catalog does not know complete with
StatusNotFound, as the live service does.
*/

////////////////////////////////////////////////////////////////////////////////

// ReplayService is a Service backed by a catalog and a storage provider.
type ReplayService struct {
	catalog catalog.Catalog
	store   storage.Provider
	cache   *util.LRU[string, []byte]
}

// ReplayOption configures a ReplayService.
type ReplayOption func(*ReplayService)

// WithRecordCache keeps up to size bytes of recently read records in memory.
func WithRecordCache(size int64) ReplayOption {
	return func(s *ReplayService) {
		s.cache = util.NewLRU[string, []byte](size, func(b []byte) int64 { return int64(len(b)) })
	}
}

// NewReplayService returns a replay service.
func NewReplayService(cat catalog.Catalog, store storage.Provider, opts ...ReplayOption) *ReplayService {
	s := &ReplayService{catalog: cat, store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Call implements Service.
func (s *ReplayService) Call(ctx context.Context, code FunctionCode, parms []byte) (Result, error) {
	group, err := Classify(code)
	if err != nil {
		return Result{}, err
	}
	if group != GroupProfileExtract {
		return Result{}, UnsupportedFunctionError{Code: code, Group: group}
	}
	p, err := pxtr.ParseParms(parms)
	if err != nil {
		return Result{}, fmt.Errorf("failed to parse parameter list: %w", err)
	}
	var id string
	if code.IsNext() {
		entry, err := s.catalog.Next(ctx, p.Class, p.ProfileName)
		if err != nil {
			return s.notFound(ctx, p, err)
		}
		id = entry.ObjectID
	} else {
		id, err = s.catalog.Get(ctx, p.Class, p.ProfileName)
		if err != nil {
			return s.notFound(ctx, p, err)
		}
	}
	record, err := s.record(ctx, id)
	if err != nil {
		return Result{}, err
	}
	if p.Flags&pxtr.FlagBaseSegmentOnly != 0 {
		if record, err = pxtr.BaseSegmentOnly(record); err != nil {
			return Result{}, fmt.Errorf("failed to cut record %s to its base segment: %w", id, err)
		}
	}
	log.Debugw(ctx, "replaying record", "class", p.Class, "profile", p.ProfileName, "object", id, "store", s.store.String())
	return Result{Record: record}, nil
}

// Capture stores a record under id and catalogues it under the class and
// profile it describes.
func (s *ReplayService) Capture(ctx context.Context, id string, record []byte) (catalog.Entry, error) {
	r, err := pxtr.Parse(record)
	if err != nil {
		return catalog.Entry{}, fmt.Errorf("failed to parse record: %w", err)
	}
	name, err := r.ProfileName()
	if err != nil {
		return catalog.Entry{}, fmt.Errorf("failed to decode profile name: %w", err)
	}
	if err := s.store.Put(ctx, id, record); err != nil {
		return catalog.Entry{}, fmt.Errorf("failed to store record: %w", err)
	}
	if err := s.catalog.Put(ctx, r.Header.Class, name, id); err != nil {
		return catalog.Entry{}, fmt.Errorf("failed to catalog record: %w", err)
	}
	log.Infow(ctx, "captured record", "class", r.Header.Class, "profile", name, "object", id)
	return catalog.Entry{Class: r.Header.Class, Profile: name, ObjectID: id}, nil
}

// List returns the catalogued profiles of a class.
func (s *ReplayService) List(ctx context.Context, class string) ([]catalog.Entry, error) {
	entries, err := s.catalog.List(ctx, class)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s profiles: %w", class, err)
	}
	return entries, nil
}

func (s *ReplayService) record(ctx context.Context, id string) ([]byte, error) {
	if s.cache != nil {
		if record, ok := s.cache.Get(id); ok {
			return record, nil
		}
	}
	record, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to read record %s: %w", id, err)
	}
	if s.cache != nil {
		if err := s.cache.Put(id, record); err != nil {
			log.Debugw(ctx, "record not cached", "object", id, "error", err)
		}
	}
	return record, nil
}

func (s *ReplayService) notFound(ctx context.Context, p pxtr.Parms, err error) (Result, error) {
	if !errors.Is(err, catalog.ProfileNotFoundError{}) {
		return Result{}, fmt.Errorf("failed to look up profile: %w", err)
	}
	log.Debugw(ctx, "profile not found", "class", p.Class, "profile", p.ProfileName)
	return Result{Status: StatusNotFound}, nil
}
