package simconn

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// DefaultXPlaneRESTURL is the X-Plane 12 Web API REST endpoint.
	DefaultXPlaneRESTURL = "http://127.0.0.1:8086/api/v2"

	// DefaultXPlaneWSURL is the X-Plane 12 Web API websocket endpoint.
	DefaultXPlaneWSURL = "ws://127.0.0.1:8086/api/v2"

	feetPerMeter = 3.28084
)

// TrafficGlobal dataref names carrying the AI traffic table. Position and
// attitude arrive as float arrays indexed by AI slot; tail numbers as a
// base64-encoded array of NUL-terminated strings.
var xplaneDatarefs = []string{
	"trafficglobal/ai/position_lat",
	"trafficglobal/ai/position_long",
	"trafficglobal/ai/position_elev", // meters MSL
	"trafficglobal/ai/position_heading",
	"trafficglobal/ai/tail_number",
}

// XPlaneClient implements Source against the X-Plane 12 Web API. Dataref
// indices are resolved over REST, then a websocket subscription streams
// TrafficGlobal updates; a reader goroutine maintains the latest arrays and
// Poll assembles a snapshot from them.
type XPlaneClient struct {
	restBaseURL string
	wsURL       string
	httpClient  *http.Client

	requestID atomic.Int64

	mu        sync.Mutex
	conn      *websocket.Conn
	idToName  map[int64]string
	latest    map[string]json.RawMessage
	cache     []Target
	connected bool
	lastError string
}

// NewXPlaneClient creates an X-Plane Web API source. Empty URLs fall back
// to the local defaults.
func NewXPlaneClient(restBaseURL, wsURL string) *XPlaneClient {
	if restBaseURL == "" {
		restBaseURL = DefaultXPlaneRESTURL
	}
	if wsURL == "" {
		wsURL = DefaultXPlaneWSURL
	}
	return &XPlaneClient{
		restBaseURL: restBaseURL,
		wsURL:       wsURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		idToName: make(map[int64]string),
		latest:   make(map[string]json.RawMessage),
	}
}

type datarefInfo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type datarefListResponse struct {
	Data []datarefInfo `json:"data"`
}

type wsRequest struct {
	RequestID int64       `json:"req_id"`
	Type      string      `json:"type"`
	Params    interface{} `json:"params"`
}

type wsUpdate struct {
	Type string                     `json:"type"`
	Data map[string]json.RawMessage `json:"data"`
}

// Connect resolves dataref indices over REST, opens the websocket, and
// subscribes to the TrafficGlobal arrays. Any failure leaves the client
// disconnected with the error recorded.
func (c *XPlaneClient) Connect() error {
	ids, err := c.lookupDatarefIDs()
	if err != nil {
		c.fail(err.Error())
		return err
	}

	conn, _, err := websocket.DefaultDialer.Dial(c.wsURL, nil)
	if err != nil {
		err = fmt.Errorf("websocket dial %s: %w", c.wsURL, err)
		c.fail(err.Error())
		return err
	}

	type subscribeRef struct {
		ID int64 `json:"id"`
	}
	refs := make([]subscribeRef, 0, len(ids))
	idToName := make(map[int64]string, len(ids))
	for name, id := range ids {
		refs = append(refs, subscribeRef{ID: id})
		idToName[id] = name
	}

	sub := wsRequest{
		RequestID: c.requestID.Add(1),
		Type:      "dataref_subscribe_values",
		Params:    map[string]interface{}{"datarefs": refs},
	}
	if err := conn.WriteJSON(sub); err != nil {
		conn.Close()
		err = fmt.Errorf("subscribe request: %w", err)
		c.fail(err.Error())
		return err
	}

	c.mu.Lock()
	if c.conn != nil {
		c.conn.Close()
	}
	c.conn = conn
	c.idToName = idToName
	c.latest = make(map[string]json.RawMessage)
	c.connected = true
	c.lastError = ""
	c.mu.Unlock()

	go c.readLoop(conn)
	return nil
}

// lookupDatarefIDs fetches the integer indices for the TrafficGlobal
// datarefs via REST, using one filtered query per the Web API spec.
func (c *XPlaneClient) lookupDatarefIDs() (map[string]int64, error) {
	u, err := url.Parse(c.restBaseURL + "/datarefs")
	if err != nil {
		return nil, fmt.Errorf("parse REST URL: %w", err)
	}
	q := u.Query()
	for _, name := range xplaneDatarefs {
		q.Add("filter[name]", name)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequest(http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create dataref request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dataref index lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("dataref lookup status %d: %s", resp.StatusCode, string(body))
	}

	var list datarefListResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode dataref list: %w", err)
	}

	ids := make(map[string]int64, len(list.Data))
	for _, d := range list.Data {
		ids[d.Name] = d.ID
	}
	if len(ids) != len(xplaneDatarefs) {
		return nil, fmt.Errorf("only %d of %d datarefs resolved; is Traffic Global loaded?",
			len(ids), len(xplaneDatarefs))
	}
	return ids, nil
}

// readLoop consumes dataref updates until the connection drops.
func (c *XPlaneClient) readLoop(conn *websocket.Conn) {
	for {
		var update wsUpdate
		if err := conn.ReadJSON(&update); err != nil {
			c.mu.Lock()
			// Only demote if this connection is still the active one;
			// a reconnect may already have replaced it.
			if c.conn == conn {
				c.connected = false
				c.lastError = fmt.Sprintf("websocket read: %v", err)
			}
			c.mu.Unlock()
			return
		}
		if update.Type != "dataref_update_values" {
			continue
		}

		c.mu.Lock()
		for idStr, raw := range update.Data {
			var id int64
			if _, err := fmt.Sscanf(idStr, "%d", &id); err != nil {
				continue
			}
			if name, ok := c.idToName[id]; ok {
				c.latest[name] = raw
			}
		}
		c.mu.Unlock()
	}
}

// Poll assembles the current snapshot from the latest dataref arrays. While
// disconnected it returns the last cached snapshot.
func (c *XPlaneClient) Poll() []Target {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return c.cache
	}

	lats := decodeFloatArray(c.latest["trafficglobal/ai/position_lat"])
	lons := decodeFloatArray(c.latest["trafficglobal/ai/position_long"])
	elevs := decodeFloatArray(c.latest["trafficglobal/ai/position_elev"])
	headings := decodeFloatArray(c.latest["trafficglobal/ai/position_heading"])
	tails := decodeStringArray(c.latest["trafficglobal/ai/tail_number"])

	n := len(lats)
	if len(lons) < n {
		n = len(lons)
	}
	if n == 0 {
		return c.cache
	}

	targets := make([]Target, 0, n)
	for i := 0; i < n; i++ {
		t := Target{ID: int64(i)}
		lat, lon := lats[i], lons[i]
		t.Latitude = &lat
		t.Longitude = &lon
		if i < len(elevs) {
			altFt := elevs[i] * feetPerMeter
			t.AltitudeFt = &altFt
		}
		if i < len(headings) {
			t.HeadingDeg = headings[i]
		}
		if i < len(tails) {
			t.Callsign = tails[i]
		}
		targets = append(targets, t)
	}

	c.cache = targets
	return targets
}

// Connected reports the connection state.
func (c *XPlaneClient) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// LastError returns the most recent failure message.
func (c *XPlaneClient) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastError
}

// Close shuts the websocket down.
func (c *XPlaneClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
	if c.conn != nil {
		c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}

func (c *XPlaneClient) fail(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
	c.lastError = msg
}

// decodeFloatArray decodes a JSON number array dataref value. A nil or
// malformed value yields an empty slice.
func decodeFloatArray(raw json.RawMessage) []float64 {
	if raw == nil {
		return nil
	}
	var vals []float64
	if err := json.Unmarshal(raw, &vals); err != nil {
		return nil
	}
	return vals
}

// decodeStringArray decodes a byte-array dataref delivered as a base64
// string holding NUL-terminated entries, the encoding Traffic Global uses
// for tail numbers and airline codes.
func decodeStringArray(raw json.RawMessage) []string {
	if raw == nil {
		return nil
	}
	var b64 string
	if err := json.Unmarshal(raw, &b64); err != nil {
		return nil
	}
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil
	}
	parts := strings.Split(string(data), "\x00")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
