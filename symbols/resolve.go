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
	"strings"

	"github.com/clruntim/coredbg/dbgerr"
)

/*
ResolvedLocation is the outcome of resolving a (file, line) breakpoint
request: the method it falls in, the IL offset to arm at, and the
effective source line (the first non-hidden sequence point's line at or
after the request line, which may differ from the requested line).
*/
type ResolvedLocation struct {
	Method        *MethodDebugInfo
	ILOffset      int
	EffectiveLine int
}

/*
Resolve implements spec.md §4.5's resolution algorithm: the requested
path is split on '/' into segments, reversed, and matched
segment-by-segment (case-insensitively) against each document's
reversed path segments; the document with the highest prefix-match
count wins. Within it, method selection prefers the inner-most method
whose [FirstLine, LastLine] interval contains the request line
(supporting lambdas/delegates nested inside an outer method). Within
the method, the first non-hidden sequence point whose StartLine is at
or after the request line is the arming point.
*/
func Resolve(store SymbolStore, path string, line int) (*ResolvedLocation, error) {
	doc := bestDocument(store, path)
	if doc == nil {
		return nil, dbgerr.New(dbgerr.KindNotFound, "symbols.Resolve", "no document matches "+path)
	}

	method := innermostMethod(doc, line)
	if method == nil {
		return nil, dbgerr.New(dbgerr.KindNotFound, "symbols.Resolve", "no method contains line")
	}

	for _, sp := range method.Points {
		if sp.Hidden {
			continue
		}
		if sp.StartLine >= line {
			return &ResolvedLocation{Method: method, ILOffset: sp.ILOffset, EffectiveLine: sp.StartLine}, nil
		}
	}

	return nil, dbgerr.New(dbgerr.KindNotFound, "symbols.Resolve", "no sequence point at or after requested line")
}

func bestDocument(store SymbolStore, path string) *Document {
	reqSegs := reversedSegments(path)

	var best *Document
	bestScore := 0

	for _, doc := range store.Documents() {
		docSegs := reversedSegments(doc.Path)
		score := prefixMatchCount(reqSegs, docSegs)
		if score > bestScore {
			bestScore = score
			best = doc
		}
	}

	return best
}

func reversedSegments(path string) []string {
	path = strings.ReplaceAll(path, "\\", "/")
	parts := strings.Split(path, "/")
	reversed := make([]string, len(parts))
	for i, p := range parts {
		reversed[len(parts)-1-i] = strings.ToLower(p)
	}
	return reversed
}

func prefixMatchCount(a, b []string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

/*
innermostMethod picks, among every method whose span contains line, the
one with the smallest span - the most tightly nested one.
*/
func innermostMethod(doc *Document, line int) *MethodDebugInfo {
	var best *MethodDebugInfo
	bestSpan := -1

	for _, m := range doc.Methods {
		if line < m.FirstLine || line > m.LastLine {
			continue
		}
		span := m.LastLine - m.FirstLine
		if best == nil || span < bestSpan {
			best = m
			bestSpan = span
		}
	}

	return best
}
