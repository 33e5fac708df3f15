package product

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EcoScan-Backend/domain"
	"EcoScan-Backend/internal/testutil"
	"EcoScan-Backend/internal/utils/metrics"
)

const (
	identityBody  = `{"C005":{"total_count":"1","row":[{"PRDLST_REPORT_NO":"19950371002756","PRDLST_NM":"콜라","BSSH_NM":"음료회사","PRDLST_DCNM":"탄산음료"}],"RESULT":{"CODE":"INFO-000"}}}`
	emptyBody     = `{"C005":{"total_count":"0","RESULT":{"MSG":"해당하는 데이터가 없습니다.","CODE":"INFO-200"}}}`
	packageBody   = `{"I1250":{"row":[{"FRMLC_MTRQLT":"페트"}]}}`
	ingredBody    = `{"C002":{"row":[{"RAWMTRL_NM":"정제수, 설탕, 카라멜색소"}]}}`
	nutriBody     = `{"response":{"body":{"items":[{"nutConSrtrQua":"250ml","nat":"15","sugar":27,"fasat":"0","fatrn":"0","foodLv4Cd":"D0101"}]}}}`
	imageBody     = `{"body":{"items":[{"item":{"imgurl1":"https://img.example.com/cola.jpg"}}]}}`
	badKeyBody    = `{"RESULT":{"MSG":"인증키가 유효하지 않습니다.","CODE":"INFO-100"}}`
	serverErrBody = `{"I1250":{"RESULT":{"MSG":"서버 오류","CODE":"ERROR-500"}}}`
)

type fakeUpstream struct {
	identity  string
	packaging string
	calls     atomic.Int32
	status    int
	failing   map[string]int
}

func (f *fakeUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.calls.Add(1)
	if f.status != 0 {
		w.WriteHeader(f.status)
		return
	}
	path := r.URL.Path
	for fragment, status := range f.failing {
		if strings.Contains(path, fragment) {
			w.WriteHeader(status)
			return
		}
	}
	switch {
	case strings.Contains(path, "/C005/"):
		_, _ = w.Write([]byte(f.identity))
	case strings.Contains(path, "/I1250/"):
		body := f.packaging
		if body == "" {
			body = packageBody
		}
		_, _ = w.Write([]byte(body))
	case strings.Contains(path, "/C002/"):
		_, _ = w.Write([]byte(ingredBody))
	case strings.HasPrefix(path, "/nutri"):
		if r.URL.Query().Get("itemMnftrRptNo") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(nutriBody))
	case strings.HasPrefix(path, "/img"):
		_, _ = w.Write([]byte(imageBody))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestGateway(t *testing.T, upstream *fakeUpstream) UpstreamGateway {
	t.Helper()
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)
	return NewUpstreamGateway(GatewayConfig{
		FoodSafetyBaseURL: srv.URL,
		FoodSafetyAPIKey:  "KEY",
		NutritionAPIURL:   srv.URL + "/nutri",
		ImageAPIURL:       srv.URL + "/img",
		ServiceKey:        "SVC",
		Timeouts: Timeouts{
			Identity: time.Second, Packaging: time.Second, Ingredients: time.Second,
			Nutrition: time.Second, Image: time.Second,
		},
	}, srv.Client(), metrics.NewMetrics(), testutil.Logger(t))
}

func TestUpstreamGateway_FetchChain(t *testing.T) {
	ctx := context.Background()
	g := newTestGateway(t, &fakeUpstream{identity: identityBody})

	identity, err := g.FetchIdentity(ctx, "8801094083007")
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, IdentityRow{ReportNo: "19950371002756", Name: "콜라", Brand: "음료회사", CategoryName: "탄산음료"}, *identity)

	pkg, err := g.FetchPackaging(ctx, identity.ReportNo)
	require.NoError(t, err)
	assert.Equal(t, "페트", pkg.Material)

	ing, err := g.FetchIngredients(ctx, identity.ReportNo)
	require.NoError(t, err)
	assert.Equal(t, "정제수, 설탕, 카라멜색소", ing.RawMaterials)

	nut, err := g.FetchNutrition(ctx, identity.ReportNo)
	require.NoError(t, err)
	assert.Equal(t, NutritionRow{ServingSize: "250ml", Sodium: "15", Sugar: "27", SaturatedFat: "0", TransFat: "0", CategoryCode: "D0101"}, *nut)

	img, err := g.FetchImage(ctx, identity.ReportNo)
	require.NoError(t, err)
	assert.Equal(t, "https://img.example.com/cola.jpg", img.URL)
}

func TestUpstreamGateway_EmptyResultIsAbsent(t *testing.T) {
	g := newTestGateway(t, &fakeUpstream{identity: emptyBody})

	identity, err := g.FetchIdentity(context.Background(), "0000")

	require.NoError(t, err)
	assert.Nil(t, identity)
}

func TestUpstreamGateway_Non2xxIsFailure(t *testing.T) {
	g := newTestGateway(t, &fakeUpstream{status: http.StatusInternalServerError})

	_, err := g.FetchNutrition(context.Background(), "R1")

	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestUpstreamGateway_BreakerOpensAfterFailures(t *testing.T) {
	upstream := &fakeUpstream{status: http.StatusBadGateway}
	g := newTestGateway(t, upstream)

	for i := 0; i < 8; i++ {
		_, err := g.FetchIdentity(context.Background(), "8801")
		require.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	}

	assert.Equal(t, int32(5), upstream.calls.Load())
}

func TestUpstreamGateway_OptionalBreakerDoesNotBlockNutrition(t *testing.T) {
	ctx := context.Background()
	g := newTestGateway(t, &fakeUpstream{
		identity: identityBody,
		failing:  map[string]int{"/img": http.StatusInternalServerError, "/I1250/": http.StatusInternalServerError},
	})

	for i := 0; i < 8; i++ {
		_, err := g.FetchImage(ctx, "R1")
		require.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
		_, err = g.FetchPackaging(ctx, "R1")
		require.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	}

	nut, err := g.FetchNutrition(ctx, "R1")
	require.NoError(t, err)
	require.NotNil(t, nut)

	identity, err := g.FetchIdentity(ctx, "8801")
	require.NoError(t, err)
	require.NotNil(t, identity)
}

func TestUpstreamGateway_CancelledCallsDoNotTripBreaker(t *testing.T) {
	upstream := &fakeUpstream{identity: identityBody}
	g := newTestGateway(t, upstream)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 8; i++ {
		_, err := g.FetchImage(cancelled, "R1")
		require.Error(t, err)
	}

	img, err := g.FetchImage(context.Background(), "R1")
	require.NoError(t, err)
	require.NotNil(t, img)
	assert.Equal(t, "https://img.example.com/cola.jpg", img.URL)
}

func TestUpstreamGateway_ServiceErrorIsFailure(t *testing.T) {
	ctx := context.Background()
	g := newTestGateway(t, &fakeUpstream{identity: badKeyBody, packaging: serverErrBody})

	identity, err := g.FetchIdentity(ctx, "8801")
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	assert.Nil(t, identity)
	assert.Contains(t, err.Error(), "INFO-100")

	pkg, err := g.FetchPackaging(ctx, "R1")
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	assert.Nil(t, pkg)
	assert.Contains(t, err.Error(), "ERROR-500")
}

func TestFirstServiceRow_ResultCodes(t *testing.T) {
	row, err := firstServiceRow([]byte(emptyBody), "C005")
	require.NoError(t, err)
	assert.Nil(t, row)

	row, err = firstServiceRow([]byte(identityBody), "C005")
	require.NoError(t, err)
	assert.Equal(t, "콜라", text(row["PRDLST_NM"]))

	_, err = firstServiceRow([]byte(`{}`), "C005")
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestTimeouts_WithDefaults(t *testing.T) {
	got := Timeouts{Identity: 7 * time.Second, Image: time.Second}.withDefaults()

	assert.Equal(t, Timeouts{
		Identity:    7 * time.Second,
		Packaging:   3 * time.Second,
		Ingredients: 3 * time.Second,
		Nutrition:   5 * time.Second,
		Image:       time.Second,
	}, got)
}

func TestPublicDataItems_Shapes(t *testing.T) {
	items, err := publicDataItems([]byte(`{"body":{"items":{"item":[{"nat":"1"},{"nat":"2"}]}}}`))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "2", text(items[1]["nat"]))

	items, err = publicDataItems([]byte(`{"response":{"body":{"items":{"item":{"nat":3.5}}}}}`))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "3.5", text(items[0]["nat"]))

	items, err = publicDataItems([]byte(`{"response":{"header":{"resultCode":"03"}}}`))
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = publicDataItems([]byte(`not json`))
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}
