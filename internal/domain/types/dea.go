package types

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// DEA is a disposable email address as returned by read_dea and save_dea.
// The server owns the schema, so the object is kept whole; accessors cover
// the fields the client relies on.
type DEA map[string]any

// Address returns the disposable address itself.
func (d DEA) Address() string { return d.text("dea") }

// RealEmail returns the mailbox the address forwards to.
func (d DEA) RealEmail() string { return d.text("realemail") }

// ID returns the server-side identifier, if any.
func (d DEA) ID() string { return d.text("id") }

func (d DEA) text(key string) string {
	switch v := d[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// DecodeDEAList decodes the data member of a read_dea response. The service
// returns either a list of objects or an object keyed by address id; the
// latter is flattened in id order.
func DecodeDEAList(raw json.RawMessage) ([]DEA, error) {
	if len(raw) == 0 {
		return []DEA{}, nil
	}
	var list []DEA
	if err := json.Unmarshal(raw, &list); err == nil {
		if list == nil {
			list = []DEA{}
		}
		return list, nil
	}
	var keyed map[string]DEA
	if err := json.Unmarshal(raw, &keyed); err != nil {
		return nil, fmt.Errorf("decode dea list: %w", err)
	}
	keys := make([]string, 0, len(keyed))
	for k := range keyed {
		keys = append(keys, k)
	}
	sortKeys(keys)
	out := make([]DEA, 0, len(keyed))
	for _, k := range keys {
		out = append(out, keyed[k])
	}
	return out, nil
}

// sortKeys orders ids numerically when every key is an integer, and as
// strings otherwise.
func sortKeys(keys []string) {
	nums := make(map[string]int, len(keys))
	for _, k := range keys {
		n, err := strconv.Atoi(k)
		if err != nil {
			sort.Strings(keys)
			return
		}
		nums[k] = n
	}
	sort.Slice(keys, func(i, j int) bool { return nums[keys[i]] < nums[keys[j]] })
}

// CreateOptions are the optional save_dea parameters.
type CreateOptions struct {
	// Expire is the lifetime in days.
	Expire *int
	// Forwards is the number of mails forwarded before the address stops.
	Forwards *int
	// Extra carries any further save_dea parameters verbatim. Keys here
	// override the typed fields.
	Extra map[string]any
}

// Params builds the save_dea request body for realEmail.
func (o CreateOptions) Params(realEmail string) map[string]any {
	p := map[string]any{"realemail": realEmail}
	if o.Expire != nil {
		p["expire"] = *o.Expire
	}
	if o.Forwards != nil {
		p["forwards"] = *o.Forwards
	}
	for k, v := range o.Extra {
		p[k] = v
	}
	return p
}
