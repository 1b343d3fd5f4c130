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

package commands

import (
	"path"
	"regexp"
)

// Mangled filenames carry the file id between export and import so a
// round trip preserves identities: "report_AbCdEfGhIjKlMnOpQrStUv.txt"
// stores as "report.txt" with that id. Ids are 22 url-safe base64 chars.
var mangledName = regexp.MustCompile(`^(.+)_([0-9A-Za-z_-]{22})$`)

// parseMangledName splits a mangled filename into the clean name and the
// embedded file id. Returns the name unchanged and an empty id when the
// name carries none.
func parseMangledName(name string) (clean, fid string) {
	ext := path.Ext(name)
	base := name[:len(name)-len(ext)]
	m := mangledName.FindStringSubmatch(base)
	if m == nil {
		return name, ""
	}
	return m[1] + ext, m[2]
}

// mangleName embeds a file id into a filename before the extension.
func mangleName(name, fid string) string {
	ext := path.Ext(name)
	base := name[:len(name)-len(ext)]
	return base + "_" + fid + ext
}
