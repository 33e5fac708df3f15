package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"EcoScan-Backend/domain"
	"EcoScan-Backend/internal/utils/logger"
	"EcoScan-Backend/internal/utils/metrics"
)

const (
	endpointIdentity    = "C005"
	endpointPackaging   = "I1250"
	endpointIngredients = "C002"
	endpointNutrition   = "nutrition"
	endpointImage       = "image"

	maxResponseBytes = 2 << 20
)

type (
	IdentityRow struct {
		ReportNo     string
		Name         string
		Brand        string
		CategoryName string
	}

	PackagingRow struct {
		Material string
	}

	IngredientRow struct {
		RawMaterials string
	}

	NutritionRow struct {
		ServingSize  string
		Sodium       string
		Sugar        string
		SaturatedFat string
		TransFat     string
		CategoryCode string
	}

	ImageRow struct {
		URL string
	}

	// UpstreamGateway fetches product fragments from the public food APIs.
	// A nil row with a nil error means the source has no data for the key;
	// an error means the call itself failed.
	UpstreamGateway interface {
		FetchIdentity(ctx context.Context, barcode string) (*IdentityRow, error)
		FetchPackaging(ctx context.Context, reportNo string) (*PackagingRow, error)
		FetchIngredients(ctx context.Context, reportNo string) (*IngredientRow, error)
		FetchNutrition(ctx context.Context, reportNo string) (*NutritionRow, error)
		FetchImage(ctx context.Context, reportNo string) (*ImageRow, error)
	}

	Timeouts struct {
		Identity    time.Duration
		Packaging   time.Duration
		Ingredients time.Duration
		Nutrition   time.Duration
		Image       time.Duration
	}

	GatewayConfig struct {
		FoodSafetyBaseURL string
		FoodSafetyAPIKey  string
		NutritionAPIURL   string
		ImageAPIURL       string
		ServiceKey        string
		RatePerSecond     float64
		Burst             int
		Timeouts          Timeouts
	}

	upstreamGateway struct {
		cfg      GatewayConfig
		client   *http.Client
		limiter  *rate.Limiter
		breakers map[string]*gobreaker.CircuitBreaker[[]byte]
		metrics  *metrics.Metrics
		log      *logger.Logger
	}
)

func DefaultTimeouts() Timeouts {
	return Timeouts{
		Identity:    5 * time.Second,
		Packaging:   3 * time.Second,
		Ingredients: 3 * time.Second,
		Nutrition:   5 * time.Second,
		Image:       5 * time.Second,
	}
}

func NewUpstreamGateway(cfg GatewayConfig, client *http.Client, m *metrics.Metrics, log *logger.Logger) UpstreamGateway {
	if client == nil {
		client = &http.Client{}
	}
	cfg.Timeouts = cfg.Timeouts.withDefaults()
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	g := &upstreamGateway{
		cfg:     cfg,
		client:  client,
		limiter: rate.NewLimiter(limit, burst),
		metrics: m,
		log:     log,
	}
	// breakers are per endpoint; optional sources must not trip the fatal ones
	g.breakers = make(map[string]*gobreaker.CircuitBreaker[[]byte])
	for _, endpoint := range []string{endpointIdentity, endpointPackaging, endpointIngredients, endpointNutrition, endpointImage} {
		g.breakers[endpoint] = g.newBreaker(endpoint)
	}
	return g
}

// withDefaults fills every unset timeout from DefaultTimeouts.
func (t Timeouts) withDefaults() Timeouts {
	d := DefaultTimeouts()
	for _, f := range []struct {
		v   *time.Duration
		def time.Duration
	}{
		{&t.Identity, d.Identity},
		{&t.Packaging, d.Packaging},
		{&t.Ingredients, d.Ingredients},
		{&t.Nutrition, d.Nutrition},
		{&t.Image, d.Image},
	} {
		if *f.v <= 0 {
			*f.v = f.def
		}
	}
	return t
}

func (g *upstreamGateway) newBreaker(name string) *gobreaker.CircuitBreaker[[]byte] {
	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// cancellation by the caller is not an upstream failure
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			g.log.Warn("upstream breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			g.metrics.IncBreakerTransition(name, to.String())
		},
	})
}

func (g *upstreamGateway) FetchIdentity(ctx context.Context, barcode string) (*IdentityRow, error) {
	body, err := g.get(ctx, endpointIdentity, g.foodSafetyURL(endpointIdentity, "BAR_CD", barcode), g.cfg.Timeouts.Identity)
	if err != nil {
		return nil, err
	}
	row, err := firstServiceRow(body, endpointIdentity)
	if err != nil || row == nil {
		return nil, err
	}
	return &IdentityRow{
		ReportNo:     text(row["PRDLST_REPORT_NO"]),
		Name:         text(row["PRDLST_NM"]),
		Brand:        text(row["BSSH_NM"]),
		CategoryName: text(row["PRDLST_DCNM"]),
	}, nil
}

func (g *upstreamGateway) FetchPackaging(ctx context.Context, reportNo string) (*PackagingRow, error) {
	body, err := g.get(ctx, endpointPackaging, g.foodSafetyURL(endpointPackaging, "PRDLST_REPORT_NO", reportNo), g.cfg.Timeouts.Packaging)
	if err != nil {
		return nil, err
	}
	row, err := firstServiceRow(body, endpointPackaging)
	if err != nil || row == nil {
		return nil, err
	}
	material := text(row["FRMLC_MTRQLT"])
	if material == "" {
		return nil, nil
	}
	return &PackagingRow{Material: material}, nil
}

func (g *upstreamGateway) FetchIngredients(ctx context.Context, reportNo string) (*IngredientRow, error) {
	body, err := g.get(ctx, endpointIngredients, g.foodSafetyURL(endpointIngredients, "PRDLST_REPORT_NO", reportNo), g.cfg.Timeouts.Ingredients)
	if err != nil {
		return nil, err
	}
	row, err := firstServiceRow(body, endpointIngredients)
	if err != nil || row == nil {
		return nil, err
	}
	raw := text(row["RAWMTRL_NM"])
	if raw == "" {
		return nil, nil
	}
	return &IngredientRow{RawMaterials: raw}, nil
}

func (g *upstreamGateway) FetchNutrition(ctx context.Context, reportNo string) (*NutritionRow, error) {
	q := url.Values{}
	q.Set("serviceKey", g.cfg.ServiceKey)
	q.Set("itemMnftrRptNo", reportNo)
	q.Set("type", "json")
	q.Set("numOfRows", "1")

	body, err := g.get(ctx, endpointNutrition, withQuery(g.cfg.NutritionAPIURL, q), g.cfg.Timeouts.Nutrition)
	if err != nil {
		return nil, err
	}
	items, err := publicDataItems(body)
	if err != nil || len(items) == 0 {
		return nil, err
	}
	item := items[0]
	return &NutritionRow{
		ServingSize:  text(item["nutConSrtrQua"]),
		Sodium:       text(item["nat"]),
		Sugar:        text(item["sugar"]),
		SaturatedFat: text(item["fasat"]),
		TransFat:     text(item["fatrn"]),
		CategoryCode: text(item["foodLv4Cd"]),
	}, nil
}

func (g *upstreamGateway) FetchImage(ctx context.Context, reportNo string) (*ImageRow, error) {
	q := url.Values{}
	q.Set("serviceKey", g.cfg.ServiceKey)
	q.Set("prdlstReportNo", reportNo)
	q.Set("returnType", "json")

	body, err := g.get(ctx, endpointImage, withQuery(g.cfg.ImageAPIURL, q), g.cfg.Timeouts.Image)
	if err != nil {
		return nil, err
	}
	items, err := publicDataItems(body)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		// image items wrap their fields in an "item" object
		fields := item
		if nested, ok := item["item"]; ok {
			var inner map[string]json.RawMessage
			if json.Unmarshal(nested, &inner) == nil {
				fields = inner
			}
		}
		if u := text(fields["imgurl1"]); u != "" {
			return &ImageRow{URL: u}, nil
		}
	}
	return nil, nil
}

func (g *upstreamGateway) foodSafetyURL(service, param, value string) string {
	return fmt.Sprintf("%s/%s/%s/json/1/5/%s=%s",
		strings.TrimRight(g.cfg.FoodSafetyBaseURL, "/"),
		url.PathEscape(g.cfg.FoodSafetyAPIKey),
		service, param, url.PathEscape(value),
	)
}

// get performs one rate-limited GET through the breaker with its own
// timeout. Any failure is reported as ErrUpstreamUnavailable.
func (g *upstreamGateway) get(ctx context.Context, endpoint string, rawURL string, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	body, err := g.breakers[endpoint].Execute(func() ([]byte, error) {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := g.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		return io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	})

	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeFailure
	}
	g.metrics.ObserveUpstream(endpoint, outcome, time.Since(start).Seconds())

	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrUpstreamUnavailable, endpoint, err)
	}
	return body, nil
}

// firstServiceRow decodes {"<service>": {"row": [...]}} and returns the
// first row, or nil when the service reported no rows. A response without
// the service object, or with a RESULT code other than INFO-000/INFO-200,
// is a failed call.
func firstServiceRow(body []byte, service string) (map[string]json.RawMessage, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %s: decoding response: %v", domain.ErrUpstreamUnavailable, service, err)
	}
	raw, ok := envelope[service]
	if !ok {
		return nil, fmt.Errorf("%w: %s: %s", domain.ErrUpstreamUnavailable, service, resultError(envelope["RESULT"]))
	}
	var payload struct {
		Row    []map[string]json.RawMessage `json:"row"`
		Result *serviceResult               `json:"RESULT"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: %s: decoding rows: %v", domain.ErrUpstreamUnavailable, service, err)
	}
	if payload.Result != nil && !payload.Result.ok() {
		return nil, fmt.Errorf("%w: %s: %s %s", domain.ErrUpstreamUnavailable, service, payload.Result.Code, payload.Result.Msg)
	}
	if len(payload.Row) == 0 {
		return nil, nil
	}
	return payload.Row[0], nil
}

type serviceResult struct {
	Code string `json:"CODE"`
	Msg  string `json:"MSG"`
}

func (r serviceResult) ok() bool {
	return r.Code == "" || r.Code == "INFO-000" || r.Code == "INFO-200"
}

func resultError(raw json.RawMessage) string {
	var r serviceResult
	if len(raw) == 0 || json.Unmarshal(raw, &r) != nil || r.Code == "" {
		return "service missing from response"
	}
	return r.Code + " " + r.Msg
}

// publicDataItems extracts body.items from data.go.kr responses, with or
// without the outer "response" object. items may be a list or an object
// holding an "item" list or a single item.
func publicDataItems(body []byte) ([]map[string]json.RawMessage, error) {
	type itemsBody struct {
		Items json.RawMessage `json:"items"`
	}
	var envelope struct {
		Response *struct {
			Body *itemsBody `json:"body"`
		} `json:"response"`
		Body *itemsBody `json:"body"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: decoding public data response: %v", domain.ErrUpstreamUnavailable, err)
	}

	var items json.RawMessage
	switch {
	case envelope.Response != nil && envelope.Response.Body != nil:
		items = envelope.Response.Body.Items
	case envelope.Body != nil:
		items = envelope.Body.Items
	}
	return decodeItems(items), nil
}

func decodeItems(raw json.RawMessage) []map[string]json.RawMessage {
	raw = json.RawMessage(strings.TrimSpace(string(raw)))
	if len(raw) == 0 {
		return nil
	}
	switch raw[0] {
	case '[':
		var list []map[string]json.RawMessage
		if json.Unmarshal(raw, &list) == nil {
			return list
		}
	case '{':
		var wrapper map[string]json.RawMessage
		if json.Unmarshal(raw, &wrapper) != nil {
			return nil
		}
		if inner, ok := wrapper["item"]; ok {
			if list := decodeItems(inner); list != nil {
				return list
			}
		}
		return []map[string]json.RawMessage{wrapper}
	}
	return nil
}

// text reads a JSON scalar as a trimmed string. Numbers keep their literal
// form; null, objects and arrays read as empty.
func text(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return ""
	}
	switch s[0] {
	case '"':
		var v string
		if json.Unmarshal(raw, &v) != nil {
			return ""
		}
		return strings.TrimSpace(v)
	case '{', '[':
		return ""
	}
	return s
}

func withQuery(base string, q url.Values) string {
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + q.Encode()
}
