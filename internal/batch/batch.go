package batch

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
)

// payload mirrors the JSON object sent to the browser. Field order is the
// order in which the bridge applies each kind of effect.
type payload struct {
	// Navigate is the page the browser must load.
	Navigate string `json:"propage,omitempty"`

	// Params maps element id to the query parameter name its value is sent as.
	Params map[string]string `json:"params,omitempty"`

	// Content replaces the innerHTML of every element matching the selector.
	Content map[string]string `json:"contenu,omitempty"`

	// Append appends each fragment, in order, to the matching elements.
	Append map[string][]string `json:"alasuite,omitempty"`

	Classes map[string]string `json:"classes,omitempty"`
	Values  map[string]string `json:"valeurs,omitempty"`

	// CreateHeartbeats maps heartbeat handle (as a string) to its interval in ms.
	CreateHeartbeats map[string]int64 `json:"créer_batt,omitempty"`
	StopHeartbeats   []int            `json:"stop_batt,omitempty"`

	// ListenKeys is a pointer so that an explicit false is still sent.
	ListenKeys   *bool  `json:"écouter_touches,omitempty"`
	KeysEndpoint string `json:"comm_touches,omitempty"`

	ClickCaptures []ClickCapture `json:"capture_clic,omitempty"`
}

// ClickCapture enables or disables click forwarding for a selector.
type ClickCapture struct {
	Enabled  bool
	Selector string
	Endpoint string
}

// MarshalJSON encodes the capture as an [enabled, selector, endpoint] triple.
func (c ClickCapture) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]any{c.Enabled, c.Selector, c.Endpoint})
}

// Batch is the set of effects accumulated during one request cycle.
//
// Batch is not safe for concurrent use. htinter serves one request at a time
// and owns a single Batch for the lifetime of the server.
type Batch struct {
	p payload
}

// New returns an empty [Batch].
func New() *Batch {
	return &Batch{}
}

// Navigate sets the page the browser is redirected to.
func (b *Batch) Navigate(target string) {
	b.p.Navigate = target
}

// BindParam makes the browser send the value of element id as the query
// parameter name on every following protocol call. A later binding for the
// same id replaces the earlier one.
func (b *Batch) BindParam(id, name string) {
	if b.p.Params == nil {
		b.p.Params = make(map[string]string)
	}
	b.p.Params[id] = name
}

// SetContent replaces the content of the elements matching selector.
func (b *Batch) SetContent(selector, html string) {
	if b.p.Content == nil {
		b.p.Content = make(map[string]string)
	}
	b.p.Content[selector] = html
}

// AppendContent queues html to be appended to the elements matching selector.
// Fragments for the same selector are kept in call order.
func (b *Batch) AppendContent(selector, html string) {
	if b.p.Append == nil {
		b.p.Append = make(map[string][]string)
	}
	b.p.Append[selector] = append(b.p.Append[selector], html)
}

// SetValue replaces the value of the elements matching selector.
func (b *Batch) SetValue(selector, value string) {
	if b.p.Values == nil {
		b.p.Values = make(map[string]string)
	}
	b.p.Values[selector] = value
}

// SetClasses replaces the class list of the elements matching selector.
func (b *Batch) SetClasses(selector, classes string) {
	if b.p.Classes == nil {
		b.p.Classes = make(map[string]string)
	}
	b.p.Classes[selector] = classes
}

// CreateHeartbeat asks the browser to (re)install the timer for handle id.
// A pending stop for the same handle is withdrawn.
func (b *Batch) CreateHeartbeat(id int, intervalMs int64) {
	if b.p.CreateHeartbeats == nil {
		b.p.CreateHeartbeats = make(map[string]int64)
	}
	b.p.CreateHeartbeats[strconv.Itoa(id)] = intervalMs
	b.p.StopHeartbeats = slices.DeleteFunc(b.p.StopHeartbeats, func(v int) bool { return v == id })
}

// StopHeartbeat asks the browser to clear the timer for handle id.
// A pending create for the same handle is withdrawn.
func (b *Batch) StopHeartbeat(id int) {
	delete(b.p.CreateHeartbeats, strconv.Itoa(id))
	if !slices.Contains(b.p.StopHeartbeats, id) {
		b.p.StopHeartbeats = append(b.p.StopHeartbeats, id)
	}
}

// ListenKeys toggles keyup forwarding. Forwarding is only enabled when active
// is true and endpoint is not empty.
func (b *Batch) ListenKeys(active bool, endpoint string) {
	on := active && endpoint != ""
	b.p.ListenKeys = &on
	if on {
		b.p.KeysEndpoint = endpoint
	} else {
		b.p.KeysEndpoint = ""
	}
}

// CaptureClick appends a click binding. The browser applies the list in
// order, so a later entry for a selector overrides an earlier one.
func (b *Batch) CaptureClick(active bool, selector, endpoint string) {
	b.p.ClickCaptures = append(b.p.ClickCaptures, ClickCapture{
		Enabled:  active,
		Selector: selector,
		Endpoint: endpoint,
	})
}

// Empty reports whether no effect has been recorded since the last reset.
func (b *Batch) Empty() bool {
	p := &b.p
	return p.Navigate == "" &&
		len(p.Params) == 0 &&
		len(p.Content) == 0 &&
		len(p.Append) == 0 &&
		len(p.Classes) == 0 &&
		len(p.Values) == 0 &&
		len(p.CreateHeartbeats) == 0 &&
		len(p.StopHeartbeats) == 0 &&
		p.ListenKeys == nil &&
		len(p.ClickCaptures) == 0
}

// Reset drops every recorded effect.
func (b *Batch) Reset() {
	b.p = payload{}
}

// MarshalJSON encodes the recorded effects.
func (b *Batch) MarshalJSON() ([]byte, error) {
	return json.Marshal(&b.p)
}

// Flush encodes the recorded effects and resets the batch. The batch is reset
// even when encoding fails.
func (b *Batch) Flush() ([]byte, error) {
	defer b.Reset()

	data, err := json.Marshal(&b.p)
	if err != nil {
		return nil, fmt.Errorf("encode action batch: %w", err)
	}
	return data, nil
}
