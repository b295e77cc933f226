package caixa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/delcain/drawsync/pkg/draw"
	"github.com/delcain/drawsync/pkg/observability"
)

// dateLayout is the dd/mm/yyyy format used by the dataApuracao field.
const dateLayout = "02/01/2006"

// Client fetches draw records from the remote lottery results API.
// It is a pure I/O leaf: one outbound call per operation, no state beyond
// the shared rate limiter.
type Client interface {
	// LatestDrawNumber returns the highest draw number the source currently reports
	LatestDrawNumber(ctx context.Context) (int, error)

	// FetchDraw returns the record for one draw number
	FetchDraw(ctx context.Context, number int) (*draw.Record, error)
}

type client struct {
	log     logrus.FieldLogger
	cfg     *Config
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a new remote source client
func NewClient(log logrus.FieldLogger, cfg *Config) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &client{
		log:     log.WithField("service", "caixa"),
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
	}, nil
}

// drawPayload mirrors the wire shape of a single draw response.
type drawPayload struct {
	Numero       flexInt         `json:"numero"`
	DataApuracao string          `json:"dataApuracao"`
	Dezenas      []flexInt       `json:"dezenasSorteadasOrdemSorteio"`
	Acumulado    bool            `json:"acumulado"`
	CarryOver    flexFloat       `json:"valorAcumuladoProximoConcurso"`
	Rateio       []rateioPayload `json:"listaRateioPremio"`
	Local        string          `json:"localSorteio"`
}

// rateioPayload is one prize tier; the first entry is the top tier.
type rateioPayload struct {
	Winners flexInt   `json:"numeroDeGanhadores"`
	Prize   flexFloat `json:"valorPremio"`
}

func (c *client) LatestDrawNumber(ctx context.Context) (int, error) {
	start := time.Now()

	body, err := c.get(ctx, c.cfg.BaseURL)
	if err != nil {
		observability.RecordFetch(fetchStatus(err), time.Since(start).Seconds())
		return 0, err
	}

	var p struct {
		Numero flexInt `json:"numero"`
	}

	if err := json.Unmarshal(body, &p); err != nil {
		observability.RecordFetch("malformed", time.Since(start).Seconds())
		return 0, malformed(err)
	}

	if p.Numero <= 0 {
		observability.RecordFetch("malformed", time.Since(start).Seconds())
		return 0, fmt.Errorf("%w: source reports draw number %d", ErrMalformed, p.Numero)
	}

	observability.RecordFetch("success", time.Since(start).Seconds())

	return int(p.Numero), nil
}

func (c *client) FetchDraw(ctx context.Context, number int) (*draw.Record, error) {
	start := time.Now()

	rec, err := c.fetchDraw(ctx, number)
	observability.RecordFetch(fetchStatus(err), time.Since(start).Seconds())

	return rec, err
}

func (c *client) fetchDraw(ctx context.Context, number int) (*draw.Record, error) {
	body, err := c.get(ctx, fmt.Sprintf("%s/%d", c.cfg.BaseURL, number))
	if err != nil {
		return nil, err
	}

	var p drawPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, malformed(err)
	}

	if int(p.Numero) != number {
		return nil, fmt.Errorf("%w: requested draw %d, payload carries %d", ErrMalformed, number, p.Numero)
	}

	date, err := time.Parse(dateLayout, p.DataApuracao)
	if err != nil {
		return nil, fmt.Errorf("%w: bad draw date %q", ErrMalformed, p.DataApuracao)
	}

	numbers := make([]int, 0, len(p.Dezenas))
	for _, d := range p.Dezenas {
		numbers = append(numbers, int(d))
	}

	rec := &draw.Record{
		Number:      number,
		Date:        date,
		Numbers:     numbers,
		Accumulated: p.Acumulado,
		CarryOver:   float64(p.CarryOver),
		Location:    p.Local,
	}

	if len(p.Rateio) > 0 {
		rec.Winners = int(p.Rateio[0].Winners)
		rec.Prize = float64(p.Rateio[0].Prize)
	}

	rec.Normalize()

	if err := rec.Validate(); err != nil {
		return nil, malformed(err)
	}

	return rec, nil
}

// get performs one rate-limited request and classifies the outcome into
// the NotFound/Transient/Malformed taxonomy.
func (c *client) get(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		return nil, fmt.Errorf("%w: %v", ErrTransient, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: source returned %d", ErrTransient, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: source returned %d", ErrMalformed, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransient, err)
	}

	return normalizeUTF8(body), nil
}

func malformed(err error) error {
	if errors.Is(err, ErrMalformed) {
		return err
	}

	return fmt.Errorf("%w: %v", ErrMalformed, err)
}

func fetchStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrTransient):
		return "transient"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	default:
		return "error"
	}
}

var _ Client = (*client)(nil)
