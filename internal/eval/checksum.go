// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package eval

import (
	"encoding/binary"
	"encoding/hex"
	"hash/crc32"
	"strings"

	"github.com/platform-engineering-labs/fabrica/internal/template"
	"github.com/platform-engineering-labs/fabrica/pkg/model"
)

// Checksum fingerprints a resource's effective definition: its parameters
// evaluated in run mode, sorted by key, plus its raw template bytes. External
// caching logic compares checksums to decide redeploy-vs-skip, so identical
// state must hash identically on any host.
//
// CRC-32 is deliberate: fast, stable, and good enough for accidental
// duplicate detection. It is not a trust boundary. Template content is
// re-read on every call; callers needing repeated checksums in one pass
// should cache the result.
func Checksum(app *model.Application, res *model.Resource) (string, error) {
	e := &evaluator{app: app, visiting: make(map[string]bool)}
	return e.checksum(res)
}

func (e *evaluator) checksum(res *model.Resource) (string, error) {
	if e.visiting[res.Label] {
		return "", &model.CyclicReferenceError{Path: append(append([]string{}, e.path...), res.Label)}
	}
	e.visiting[res.Label] = true
	e.path = append(e.path, res.Label)
	defer func() {
		delete(e.visiting, res.Label)
		e.path = e.path[:len(e.path)-1]
	}()

	var sb strings.Builder
	for i, name := range res.SortedParameterNames() {
		value, err := e.evaluate(res.Parameters[name], model.EvalModeRun)
		if err != nil {
			return "", err
		}
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(name)
		sb.WriteByte('=')
		sb.WriteString(value)
	}

	content, err := template.Content(res)
	if err != nil {
		return "", err
	}
	sb.Write(content)

	sum := crc32.ChecksumIEEE([]byte(sb.String()))
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], sum)
	return hex.EncodeToString(buf[:]), nil
}
