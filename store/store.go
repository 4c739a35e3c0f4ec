// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package store implements the recognizer's key-indexed entity table:
// stable IDs, reconciliation diffs, and provisional-to-confirmed
// promotion.
//
// Store is not safe for concurrent use. The recognizer guarantees all
// mutation happens on a single logical thread of execution; Store
// performs no locking of its own.
package store

import (
	"strconv"

	"semrec/entity"
)

// Diff describes the outcome of a store mutation: which entities were
// newly added, which existing entities changed, and (for reconcile) which
// were removed because their key no longer appeared in the candidate set.
type Diff struct {
	Added   []entity.Entity
	Updated []entity.Entity
	Removed []entity.Entity
}

// Store is the key-indexed entity table.
type Store struct {
	nextID     int64
	keyToID    map[string]string
	idToEntity map[string]entity.Entity
	// order preserves insertion order so GetAll/iteration-derived event
	// ordering is deterministic rather than dependent on Go's randomized
	// map iteration.
	order []string
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		keyToID:    make(map[string]string),
		idToEntity: make(map[string]entity.Entity),
	}
}

// mintID returns a fresh, process-local, monotonically increasing ID.
// IDs are opaque to callers; the counter is an implementation detail and
// must not be parsed by consumers.
func (s *Store) mintID() string {
	s.nextID++
	return "e" + strconv.FormatInt(s.nextID, 36)
}

// Upsert inserts or updates each candidate by Key, preserving the ID of
// any existing entity with the same Key. It returns the entities that
// were newly added and the entities that changed observably (span,
// confidence, status, or value — see entity.Equal).
func (s *Store) Upsert(candidates []entity.Candidate) Diff {
	var diff Diff
	for _, c := range candidates {
		if id, ok := s.keyToID[c.Key]; ok {
			existing := s.idToEntity[id]
			updated := entity.Entity{
				ID:         id,
				Key:        c.Key,
				Kind:       c.Kind,
				Span:       c.Span,
				Text:       c.Text,
				Value:      c.Value,
				Confidence: c.Confidence,
				Status:     c.Status,
			}
			if !existing.Equal(updated) {
				s.idToEntity[id] = updated
				diff.Updated = append(diff.Updated, updated)
			}
			continue
		}

		id := s.mintID()
		e := entity.Entity{
			ID:         id,
			Key:        c.Key,
			Kind:       c.Kind,
			Span:       c.Span,
			Text:       c.Text,
			Value:      c.Value,
			Confidence: c.Confidence,
			Status:     c.Status,
		}
		s.keyToID[c.Key] = id
		s.idToEntity[id] = e
		s.order = append(s.order, id)
		diff.Added = append(diff.Added, e)
	}
	return diff
}

// RemoveByKeys removes every present key, silently ignoring keys that
// are not currently in the store. It returns the removed entities.
func (s *Store) RemoveByKeys(keys []string) []entity.Entity {
	var removed []entity.Entity
	for _, k := range keys {
		id, ok := s.keyToID[k]
		if !ok {
			continue
		}
		removed = append(removed, s.idToEntity[id])
		s.removeID(id)
	}
	return removed
}

func (s *Store) removeID(id string) {
	e, ok := s.idToEntity[id]
	if !ok {
		return
	}
	delete(s.idToEntity, id)
	delete(s.keyToID, e.Key)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Reconcile makes the store agree with candidates: every currently
// stored key absent from candidates is removed, then candidates are
// upserted. Removal is computed from the candidate key set alone;
// PluginResult.Remove lists are not consulted here (see runner package).
func (s *Store) Reconcile(candidates []entity.Candidate) Diff {
	keep := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		keep[c.Key] = struct{}{}
	}

	var removed []entity.Entity
	for _, id := range s.order {
		e := s.idToEntity[id]
		if _, ok := keep[e.Key]; !ok {
			removed = append(removed, e)
		}
	}
	for _, e := range removed {
		s.removeID(e.ID)
	}

	diff := s.Upsert(candidates)
	diff.Removed = removed
	return diff
}

// ConfirmAll promotes every provisional entity to confirmed, returning
// the entities that were promoted (already updated in the store).
func (s *Store) ConfirmAll() []entity.Entity {
	var promoted []entity.Entity
	for _, id := range s.order {
		e := s.idToEntity[id]
		if e.Status == entity.StatusProvisional {
			e.Status = entity.StatusConfirmed
			s.idToEntity[id] = e
			promoted = append(promoted, e)
		}
	}
	return promoted
}

// Clear removes every entity from the store but preserves the ID
// counter, so no future ID is reused.
func (s *Store) Clear() {
	s.keyToID = make(map[string]string)
	s.idToEntity = make(map[string]entity.Entity)
	s.order = nil
}

// Get returns the entity with the given ID.
func (s *Store) Get(id string) (entity.Entity, bool) {
	e, ok := s.idToEntity[id]
	return e, ok
}

// GetByKey returns the entity currently stored under key.
func (s *Store) GetByKey(key string) (entity.Entity, bool) {
	id, ok := s.keyToID[key]
	if !ok {
		return entity.Entity{}, false
	}
	return s.idToEntity[id], true
}

// GetAll returns every entity, in insertion order.
func (s *Store) GetAll() []entity.Entity {
	out := make([]entity.Entity, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.idToEntity[id])
	}
	return out
}

// Size returns the number of entities currently stored.
func (s *Store) Size() int {
	return len(s.idToEntity)
}
