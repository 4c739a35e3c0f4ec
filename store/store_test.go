// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"semrec/entity"
)

func cand(key string, conf float64, status entity.Status) entity.Candidate {
	return entity.Candidate{
		Key:        key,
		Kind:       entity.KindQuantity,
		Span:       entity.Span{Start: 0, End: 5},
		Text:       "10 km",
		Confidence: conf,
		Status:     status,
	}
}

func TestUpsert_NewKeyIsAdded(t *testing.T) {
	s := New()
	diff := s.Upsert([]entity.Candidate{cand("k1", 0.9, entity.StatusProvisional)})
	require.Len(t, diff.Added, 1)
	assert.Empty(t, diff.Updated)
	assert.NotEmpty(t, diff.Added[0].ID)
}

func TestUpsert_SameKeyPreservesID(t *testing.T) {
	s := New()
	d1 := s.Upsert([]entity.Candidate{cand("k1", 0.8, entity.StatusProvisional)})
	id := d1.Added[0].ID

	d2 := s.Upsert([]entity.Candidate{cand("k1", 0.95, entity.StatusProvisional)})
	require.Len(t, d2.Updated, 1)
	assert.Equal(t, id, d2.Updated[0].ID)
}

func TestUpsert_NoSpuriousUpdateWhenUnchanged(t *testing.T) {
	s := New()
	s.Upsert([]entity.Candidate{cand("k1", 0.8, entity.StatusProvisional)})
	diff := s.Upsert([]entity.Candidate{cand("k1", 0.8, entity.StatusProvisional)})
	assert.Empty(t, diff.Added)
	assert.Empty(t, diff.Updated)
}

func TestRemoveByKeys_IgnoresAbsentKeys(t *testing.T) {
	s := New()
	s.Upsert([]entity.Candidate{cand("k1", 0.8, entity.StatusProvisional)})
	removed := s.RemoveByKeys([]string{"k1", "ghost"})
	require.Len(t, removed, 1)
	assert.Equal(t, 0, s.Size())
}

func TestReconcile_RemovesKeysNotInCandidates(t *testing.T) {
	s := New()
	s.Upsert([]entity.Candidate{cand("k1", 0.8, entity.StatusProvisional), cand("k2", 0.8, entity.StatusProvisional)})

	diff := s.Reconcile([]entity.Candidate{cand("k1", 0.8, entity.StatusProvisional)})
	require.Len(t, diff.Removed, 1)
	assert.Equal(t, "k2", diff.Removed[0].Key)
	assert.Equal(t, 1, s.Size())
}

func TestReconcile_Idempotent(t *testing.T) {
	s := New()
	candidates := []entity.Candidate{cand("k1", 0.8, entity.StatusProvisional)}
	s.Reconcile(candidates)
	diff := s.Reconcile(candidates)
	assert.Empty(t, diff.Added)
	assert.Empty(t, diff.Updated)
	assert.Empty(t, diff.Removed)
}

func TestIDNeverReusedAfterRemoval(t *testing.T) {
	s := New()
	d1 := s.Upsert([]entity.Candidate{cand("k1", 0.8, entity.StatusProvisional)})
	firstID := d1.Added[0].ID

	s.RemoveByKeys([]string{"k1"})

	d2 := s.Upsert([]entity.Candidate{cand("k1", 0.8, entity.StatusProvisional)})
	assert.NotEqual(t, firstID, d2.Added[0].ID)
}

func TestConfirmAll_PromotesProvisionalOnly(t *testing.T) {
	s := New()
	s.Upsert([]entity.Candidate{
		cand("k1", 0.8, entity.StatusProvisional),
		cand("k2", 0.8, entity.StatusConfirmed),
	})
	promoted := s.ConfirmAll()
	require.Len(t, promoted, 1)
	assert.Equal(t, "k1", promoted[0].Key)
	assert.Equal(t, entity.StatusConfirmed, promoted[0].Status)

	e2, _ := s.GetByKey("k2")
	assert.Equal(t, entity.StatusConfirmed, e2.Status)
}

func TestClear_ResetsButKeepsCounterMonotonic(t *testing.T) {
	s := New()
	d1 := s.Upsert([]entity.Candidate{cand("k1", 0.8, entity.StatusProvisional)})
	s.Clear()
	assert.Equal(t, 0, s.Size())

	d2 := s.Upsert([]entity.Candidate{cand("k1", 0.8, entity.StatusProvisional)})
	assert.NotEqual(t, d1.Added[0].ID, d2.Added[0].ID)
}

func TestGetAll_PreservesInsertionOrder(t *testing.T) {
	s := New()
	s.Upsert([]entity.Candidate{cand("a", 0.8, entity.StatusProvisional)})
	s.Upsert([]entity.Candidate{cand("b", 0.8, entity.StatusProvisional)})
	s.Upsert([]entity.Candidate{cand("c", 0.8, entity.StatusProvisional)})

	all := s.GetAll()
	require.Len(t, all, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{all[0].Key, all[1].Key, all[2].Key})
}
