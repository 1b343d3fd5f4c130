// Copyright 2025 VerFS Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common

import "strings"

// RootName is the reserved sentinel used for the root folder. It is both
// the root's id and the tail of an empty path.
const RootName = "/"

// Path is an ordered list of name segments. Segments are opaque strings:
// no escaping or unicode normalization is performed on them.
type Path struct {
	Segments []string
}

// ParsePath splits a slash-delimited string into a Path, dropping empty
// segments. Leading, trailing and duplicate separators are tolerated.
func ParsePath(text string) Path {
	parts := strings.Split(text, "/")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return Path{Segments: segments}
}

// JoinPath builds a Path from pre-split segments, dropping empty ones.
func JoinPath(segments ...string) Path {
	p := Path{Segments: make([]string, 0, len(segments))}
	for _, s := range segments {
		if s != "" {
			p.Segments = append(p.Segments, s)
		}
	}
	return p
}

// Truncate returns a copy of the path with the last n segments dropped.
// Truncating past the start yields the empty (root) path.
func (p Path) Truncate(n int) Path {
	if n <= 0 {
		return Path{Segments: append([]string(nil), p.Segments...)}
	}
	if n >= len(p.Segments) {
		return Path{}
	}
	return Path{Segments: append([]string(nil), p.Segments[:len(p.Segments)-n]...)}
}

// Tail returns the last segment, or RootName for the empty path.
func (p Path) Tail() string {
	if len(p.Segments) == 0 {
		return RootName
	}
	return p.Segments[len(p.Segments)-1]
}

// IsEmpty reports whether the path has no effective segments.
func (p Path) IsEmpty() bool {
	if len(p.Segments) == 0 {
		return true
	}
	return len(p.Segments) == 1 && p.Segments[0] == RootName
}

// String serializes the path back to a slash-joined form (no leading slash).
func (p Path) String() string {
	return strings.Join(p.Segments, "/")
}
