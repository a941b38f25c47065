package settings

import (
	"strconv"
	"strings"

	"github.com/oomph-ac/knockback/entity"
	"github.com/oomph-ac/knockback/oerror"
)

// FormResolver turns a plugin-local form id into a load-order aware FormID.
type FormResolver interface {
	LookupFormID(localID uint32, file string) (entity.FormID, bool)
}

// LoadOrder is a FormResolver for a fixed load order of full (non-light) plugins: the index of
// a file in the slice is the high byte of its FormIDs.
type LoadOrder []string

// LookupFormID ...
func (l LoadOrder) LookupFormID(localID uint32, file string) (entity.FormID, bool) {
	for i, name := range l {
		if strings.EqualFold(name, file) && i <= 0xFE {
			return entity.FormID(uint32(i)<<24 | localID&0x00FFFFFF), true
		}
	}
	return 0, false
}

// ParseFormSpec parses "Plugin.esm|00ABCDEF" into a FormID. The hex part may carry a "0x" or
// "FormID:" prefix, and anything after ';' or '#' is ignored.
func ParseFormSpec(spec string, r FormResolver) (entity.FormID, error) {
	cleaned := stripComment(spec)
	file, hex, ok := strings.Cut(cleaned, "|")
	if !ok {
		return 0, oerror.New("form spec %q is missing the '|' separator", spec)
	}

	file, hex = strings.TrimSpace(file), normalizeHex(hex)
	if file == "" || hex == "" {
		return 0, oerror.New("form spec %q has an empty file or id", spec)
	}

	localID, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, oerror.New("form spec %q has an invalid id: %v", spec, err)
	}
	if r == nil {
		return 0, oerror.New("no form resolver available for %q", spec)
	}

	id, ok := r.LookupFormID(uint32(localID), file)
	if !ok || id == 0 {
		return 0, oerror.New("lookup failed: file=%q localID=0x%08X", file, localID)
	}
	return id, nil
}

func normalizeHex(hex string) string {
	hex = strings.TrimSpace(hex)
	if rest, ok := strings.CutPrefix(hex, "FormID:"); ok {
		hex = strings.TrimSpace(rest)
	}
	if len(hex) >= 2 && hex[0] == '0' && (hex[1] == 'x' || hex[1] == 'X') {
		hex = strings.TrimSpace(hex[2:])
	}
	return hex
}

func stripComment(s string) string {
	if i := strings.IndexAny(s, ";#"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// splitList splits a comma separated list, dropping comments and empty entries.
func splitList(csv string) []string {
	var out []string
	for _, item := range strings.Split(csv, ",") {
		if item = stripComment(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
