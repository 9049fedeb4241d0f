package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/narrate/narrate/internal/api/respond"
	"github.com/narrate/narrate/internal/model"
	"github.com/narrate/narrate/internal/provider"
	"github.com/narrate/narrate/internal/summary"
)

// SummaryPipeline is the slice of the weekly pipeline the HTTP layer needs.
type SummaryPipeline interface {
	CheckEligibility(ctx context.Context, userID string) (model.EligibilityResult, error)
	GenerateSummary(ctx context.Context, userID string) (*model.WeeklySummary, error)
}

// SummaryPolicy controls caller-level retry and eligibility caching.
type SummaryPolicy struct {
	MaxAttempts int
	RetryDelay  time.Duration
	CacheTTL    time.Duration
}

type SummaryHandler struct {
	pipeline SummaryPipeline
	policy   SummaryPolicy
	cache    *gocache.Cache
	log      zerolog.Logger
}

func NewSummaryHandler(p SummaryPipeline, policy SummaryPolicy, log zerolog.Logger) *SummaryHandler {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if policy.CacheTTL <= 0 {
		policy.CacheTTL = 30 * time.Second
	}
	return &SummaryHandler{
		pipeline: p,
		policy:   policy,
		cache:    gocache.New(policy.CacheTTL, 2*policy.CacheTTL),
		log:      log,
	}
}

// InvalidateEligibility drops the cached eligibility for a user. The entry
// handlers call it whenever the entry set changes so the cached count never
// outlives the entries it was computed from.
func (h *SummaryHandler) InvalidateEligibility(userID string) {
	h.cache.Delete(userID)
}

// CheckEligibility handles GET /api/summary/eligibility. Results are cached
// per user for a short TTL so dashboard polling does not hammer the store.
func (h *SummaryHandler) CheckEligibility(w http.ResponseWriter, r *http.Request) {
	session, ok := SessionFrom(r.Context())
	if !ok {
		respond.WriteUnauthorized(w, "authentication required")
		return
	}

	if cached, found := h.cache.Get(session.UserID); found {
		h.writeEligibility(w, cached.(model.EligibilityResult), true)
		return
	}

	res, err := h.pipeline.CheckEligibility(r.Context(), session.UserID)
	if err != nil {
		respond.WriteInternalError(w, "failed to fetch entries")
		return
	}
	h.cache.SetDefault(session.UserID, res)
	h.writeEligibility(w, res, false)
}

func (h *SummaryHandler) writeEligibility(w http.ResponseWriter, res model.EligibilityResult, cached bool) {
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"canGenerate": res.CanGenerate,
		"entryCount":  res.EntryCount,
		"required":    summary.MinEntries,
		"cached":      cached,
	})
}

// GenerateSummary handles POST /api/summary. Transient provider failures
// (rate limiting, network) are retried with a fixed delay up to the
// configured attempt budget; everything else fails fast.
func (h *SummaryHandler) GenerateSummary(w http.ResponseWriter, r *http.Request) {
	session, ok := SessionFrom(r.Context())
	if !ok {
		respond.WriteUnauthorized(w, "authentication required")
		return
	}

	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(h.policy.RetryDelay), uint64(h.policy.MaxAttempts-1)),
		r.Context(),
	)

	attempt := 0
	result, err := backoff.RetryWithData(func() (*model.WeeklySummary, error) {
		attempt++
		out, genErr := h.pipeline.GenerateSummary(r.Context(), session.UserID)
		if genErr == nil {
			return out, nil
		}
		var provErr *provider.Error
		if errors.As(genErr, &provErr) && provider.Retryable(provErr.Category) {
			h.log.Warn().
				Str("user_id", session.UserID).
				Int("attempt", attempt).
				Str("category", string(provErr.Category)).
				Msg("retryable summary failure")
			return nil, genErr
		}
		return nil, backoff.Permanent(genErr)
	}, bo)

	if err != nil {
		h.writeSummaryError(w, session.UserID, err)
		return
	}

	// The count shown next to a fresh summary may be stale; drop the
	// cached eligibility so the next poll recomputes it.
	h.cache.Delete(session.UserID)

	respond.WriteJSON(w, http.StatusOK, result)
}

func (h *SummaryHandler) writeSummaryError(w http.ResponseWriter, userID string, err error) {
	var eligErr *summary.EligibilityError
	if errors.As(err, &eligErr) {
		respond.WriteJSON(w, http.StatusConflict, map[string]interface{}{
			"error":      "not enough entries to generate a summary",
			"entryCount": eligErr.EntryCount,
			"required":   summary.MinEntries,
		})
		return
	}

	var provErr *provider.Error
	if errors.As(err, &provErr) {
		h.log.Error().
			Str("user_id", userID).
			Str("category", string(provErr.Category)).
			Str("message", provErr.Message).
			Msg("summary generation failed")
		switch provErr.Category {
		case provider.CategoryRateLimited:
			respond.WriteError(w, http.StatusTooManyRequests, "provider rate limited; try again later")
		case provider.CategoryMissingCredential:
			respond.WriteError(w, http.StatusBadGateway, "provider credential not configured")
		case provider.CategoryAuthFailed:
			respond.WriteError(w, http.StatusBadGateway, "provider rejected credentials")
		case provider.CategoryNetworkError:
			respond.WriteError(w, http.StatusBadGateway, "provider unreachable")
		case provider.CategoryEmptyResponse:
			respond.WriteError(w, http.StatusBadGateway, "provider returned an empty response")
		default:
			respond.WriteError(w, http.StatusBadGateway, "summary generation failed")
		}
		return
	}

	h.log.Error().Err(err).Str("user_id", userID).Msg("summary storage failure")
	respond.WriteInternalError(w, "failed to fetch entries")
}
