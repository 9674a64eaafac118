package taxonomy

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrUnknownClass is returned when a fine grained label has no entry in
	// the lookup table.
	ErrUnknownClass = errors.New("unknown class")
)

// Mapper maps a fine grained simulation class onto a coarse astrophysical class.
type Mapper interface {
	Map(fine string) (string, error)
}

// Table is a closed lookup from fine grained labels to coarse labels.
type Table map[string]string

func (t Table) Map(fine string) (string, error) {
	coarse, ok := t[fine]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownClass, fine)
	}
	return coarse, nil
}

// Classes returns the distinct coarse classes of the table, sorted.
func Classes(t Table) []string {
	seen := make(map[string]struct{})
	var classes []string
	for _, coarse := range t {
		if _, ok := seen[coarse]; ok {
			continue
		}
		seen[coarse] = struct{}{}
		classes = append(classes, coarse)
	}
	sort.Strings(classes)
	return classes
}

// Elasticc maps ELAsTiCC simulation model names to astrophysical classes.
var Elasticc = Table{
	"SNIa-SALT2": "SNIa",
	"SNIa-SALT3": "SNIa",
	"SNIa-91bg":  "SNI91bg",
	"SNIax":      "SNIax",

	"SNIb-Templates":    "SNIb/c",
	"SNIb+HostXT_V19":   "SNIb/c",
	"SNIc-Templates":    "SNIb/c",
	"SNIc+HostXT_V19":   "SNIb/c",
	"SNIcBL+HostXT_V19": "SNIb/c",

	"SNII-NMF":         "SNII",
	"SNII-Templates":   "SNII",
	"SNII+HostXT_V19":  "SNII",
	"SNIIn-MOSFIT":     "SNII",
	"SNIIn+HostXT_V19": "SNII",
	"SNIIb+HostXT_V19": "SNII",

	"SLSN-I+host":    "SLSN",
	"SLSN-I_no_host": "SLSN",
	"TDE":            "TDE",
	"ILOT":           "ILOT",
	"CART":           "CART",

	"PISN-STELLA_HYDROGENIC": "PISN",
	"PISN-STELLA_HECORE":     "PISN",
	"PISN-MOSFIT":            "PISN",

	"KN_K17": "KN",
	"KN_B19": "KN",

	"Mdwarf-flare": "M-dwarf Flare",
	"dwarf-nova":   "Dwarf Novae",

	"uLens-Single_PyLIMA":  "uLens",
	"uLens-Single-GenLens": "uLens",
	"uLens-Binary":         "uLens",

	"RRL":     "RR Lyrae",
	"Cepheid": "Cepheids",
	"d-Sct":   "Delta Scuti",
	"EB":      "EB",
	"CLAGN":   "AGN",
}
