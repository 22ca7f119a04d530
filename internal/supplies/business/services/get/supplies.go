package get

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"fbwsupplies_sync/internal/supplies/business/models/dto/request"
	"fbwsupplies_sync/internal/supplies/business/models/dto/response"
	"fbwsupplies_sync/internal/supplies/business/services"
	"fbwsupplies_sync/metrics"
)

// Лимит WB на запросы к supplies-api
const supplyRequestLimit = 3

// PageLimit — размер страницы /api/v1/supplies. Страница короче лимита —
// признак исчерпания выборки.
const PageLimit = 1000

const suppliesEndpoint = "/api/v1/supplies"

// Расписание пауз перед попытками: без ожидания, затем 2с и 5с.
// Повторяем только 429; любой другой не-200 фатален сразу.
var defaultBackoffs = []time.Duration{0, 2 * time.Second, 5 * time.Second}

// SupplyService выгружает поставки постранично для одной оси дат.
// Дедупликация между осями — не его забота, этим занимается Merger.
type SupplyService struct {
	apiURL   string
	apiKey   string
	client   *http.Client
	limiter  *rate.Limiter
	backoffs []time.Duration
	sm       *metrics.SyncMetrics
}

func NewSupplyService(apiURL, apiKey string, sm *metrics.SyncMetrics) *SupplyService {
	return &SupplyService{
		apiURL:   apiURL,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 60 * time.Second},
		limiter:  rate.NewLimiter(rate.Limit(supplyRequestLimit), supplyRequestLimit),
		backoffs: defaultBackoffs,
		sm:       sm,
	}
}

func (s *SupplyService) SetBackoffSchedule(backoffs []time.Duration) *SupplyService {
	if len(backoffs) > 0 {
		s.backoffs = backoffs
	}
	return s
}

// FetchAxis собирает все страницы одной оси, наращивая offset, пока
// страница не вернёт меньше PageLimit записей.
func (s *SupplyService) FetchAxis(ctx context.Context, plan *services.SyncPlan, axis request.DateType) ([]response.Supply, error) {
	var all []response.Supply
	offset := 0
	for {
		page, err := s.fetchPage(ctx, offset, PageLimit, plan, axis)
		if err != nil {
			return nil, fmt.Errorf("axis %s, offset %d: %w", axis, offset, err)
		}
		s.sm.RequestCount.Add(1)
		all = append(all, page...)
		if len(page) < PageLimit {
			break
		}
		offset += PageLimit
	}
	log.Printf("Axis %s: fetched %d supplies", axis, len(all))
	return all, nil
}

// fetchPage выполняет один POST /api/v1/supplies с бюджетом повторов по 429.
func (s *SupplyService) fetchPage(ctx context.Context, offset, limit int, plan *services.SyncPlan, axis request.DateType) ([]response.Supply, error) {
	body := request.SuppliesRequest{
		Dates: []request.DateFilter{{
			Start: plan.DateStart,
			End:   plan.DateEnd,
			Type:  axis,
		}},
		StatusIDs: plan.Statuses,
	}

	for attempt, wait := range s.backoffs {
		if wait > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		requestBody, err := body.CreateRequestBody()
		if err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, requestBody)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", s.apiKey)
		req.Header.Set("Content-Type", "application/json")

		query := req.URL.Query()
		query.Set("limit", strconv.Itoa(limit))
		query.Set("offset", strconv.Itoa(offset))
		req.URL.RawQuery = query.Encode()

		start := time.Now()
		resp, err := s.client.Do(req)
		if err != nil {
			return nil, err
		}

		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		metrics.RecordRequest(suppliesEndpoint, resp.StatusCode, time.Since(start))
		if err != nil {
			return nil, err
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			var page []response.Supply
			if err := json.Unmarshal(data, &page); err != nil {
				return nil, &ProtocolError{StatusCode: resp.StatusCode, Body: "unexpected WB response: " + string(data)}
			}
			s.sm.FetchedRaw.Add(int32(len(page)))
			return page, nil

		case resp.StatusCode == http.StatusTooManyRequests && attempt < len(s.backoffs)-1:
			log.Printf("WB API 429, retrying (attempt %d/%d)", attempt+1, len(s.backoffs))
			metrics.RecordRetry()
			continue

		case resp.StatusCode == http.StatusTooManyRequests:
			metrics.RecordRetryExhausted()
			return nil, fmt.Errorf("%w: WB API 429 after %d attempts", ErrRetryExhausted, len(s.backoffs))

		default:
			return nil, &ProtocolError{StatusCode: resp.StatusCode, Body: string(data)}
		}
	}
	return nil, fmt.Errorf("%w: empty backoff schedule", ErrRetryExhausted)
}
