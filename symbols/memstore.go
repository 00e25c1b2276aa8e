/*
 * coredbg
 *
 * Copyright 2024 The coredbg authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package symbols

import (
	"encoding/json"
	"io"

	"github.com/clruntim/coredbg/dbgerr"
	"github.com/clruntim/coredbg/frame"
)

/*
MemoryStore is an in-memory SymbolStore, populated once (by LoadJSON or
Add) and read thereafter without locking - it plays the "ingest at
module-load time" role a real portable-PDB reader plays in production,
for tests and for the console demo mode that has no live CLR target to
read symbols from.
*/
type MemoryStore struct {
	docs []*Document
}

/*
NewMemoryStore returns an empty store; callers populate it with Add or
LoadJSON before handing it to the breakpoint registry.
*/
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Documents() []*Document { return s.docs }

/*
Add registers one document, replacing any previously added document
with the same path.
*/
func (s *MemoryStore) Add(doc *Document) {
	for i, d := range s.docs {
		if d.Path == doc.Path {
			s.docs[i] = doc
			return
		}
	}
	s.docs = append(s.docs, doc)
}

/*
jsonFixture mirrors the shape of the small JSON fixtures used in tests
and the console demo: a flat list of documents, each a flat list of
methods, each a flat list of sequence points and local names.
*/
type jsonFixture struct {
	Documents []struct {
		Path    string `json:"path"`
		Methods []struct {
			Token     uint32 `json:"token"`
			ModuleTok uint32 `json:"module"`
			FirstLine int    `json:"firstLine"`
			LastLine  int    `json:"lastLine"`
			Points    []struct {
				ILOffset  int  `json:"ilOffset"`
				StartLine int  `json:"startLine"`
				Hidden    bool `json:"hidden"`
			} `json:"points"`
			Locals []struct {
				Slot int    `json:"slot"`
				Name string `json:"name"`
			} `json:"locals"`
		} `json:"methods"`
	} `json:"documents"`
}

/*
LoadJSON reads a fixture in the jsonFixture shape and adds every
document it describes to the store.
*/
func (s *MemoryStore) LoadJSON(r io.Reader) error {
	var fx jsonFixture
	if err := json.NewDecoder(r).Decode(&fx); err != nil {
		return dbgerr.Wrap(dbgerr.KindIoError, "symbols.LoadJSON", err)
	}

	for _, fd := range fx.Documents {
		doc := &Document{Path: fd.Path}
		for _, fm := range fd.Methods {
			m := &MethodDebugInfo{
				Token:     fm.Token,
				ModuleTok: fm.ModuleTok,
				FirstLine: fm.FirstLine,
				LastLine:  fm.LastLine,
			}
			for _, fp := range fm.Points {
				m.Points = append(m.Points, SequencePoint{ILOffset: fp.ILOffset, StartLine: fp.StartLine, Hidden: fp.Hidden})
			}
			for _, fl := range fm.Locals {
				m.Slots = append(m.Slots, frame.LocalVariable{Slot: fl.Slot, Name: fl.Name})
			}
			doc.Methods = append(doc.Methods, m)
		}
		s.Add(doc)
	}

	return nil
}
