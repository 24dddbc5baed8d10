// Package handlers provides HTTP handlers for beneficiary group reports.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/subsidywatch/internal/modules/beneficiaries"
	"github.com/aristath/subsidywatch/internal/modules/datasets"
	"github.com/aristath/subsidywatch/internal/modules/grouping"
	"github.com/aristath/subsidywatch/internal/modules/reporting"
	"github.com/aristath/subsidywatch/internal/utils"
)

const (
	defaultTopN = 10
	maxTopN     = 1000
)

// SnapshotProvider returns the current grouped dataset
type SnapshotProvider interface {
	Current() (*datasets.Snapshot, error)
}

// Handler handles report HTTP requests
type Handler struct {
	snapshots  SnapshotProvider
	categories []reporting.Category
	log        zerolog.Logger
}

// NewHandler creates a new reporting handler
func NewHandler(snapshots SnapshotProvider, categories []reporting.Category, log zerolog.Logger) *Handler {
	return &Handler{
		snapshots:  snapshots,
		categories: categories,
		log:        log.With().Str("handler", "reporting").Logger(),
	}
}

type response struct {
	Data     interface{} `json:"data" msgpack:"data"`
	Metadata metadata    `json:"metadata" msgpack:"metadata"`
}

type metadata struct {
	Timestamp  string            `json:"timestamp" msgpack:"timestamp"`
	SnapshotID string            `json:"snapshot_id,omitempty" msgpack:"snapshot_id,omitempty"`
	Strategy   grouping.Strategy `json:"strategy,omitempty" msgpack:"strategy,omitempty"`
}

// groupList is the payload of every list endpoint
type groupList struct {
	Count  int               `json:"count" msgpack:"count"`
	Groups []*grouping.Group `json:"groups" msgpack:"groups"`
}

func newGroupList(groups []*grouping.Group) groupList {
	if groups == nil {
		groups = []*grouping.Group{}
	}
	return groupList{Count: len(groups), Groups: groups}
}

// HandleGetGroups returns every group in creation order
func (h *Handler) HandleGetGroups(w http.ResponseWriter, r *http.Request) {
	snapshot, groups, ok := h.resolve(w, r)
	if !ok {
		return
	}
	h.writeData(w, r, snapshot, groups.Strategy(), newGroupList(groups.All()))
}

// HandleGetTop returns the n groups with the largest total amount
func (h *Handler) HandleGetTop(w http.ResponseWriter, r *http.Request) {
	n := defaultTopN
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 || parsed > maxTopN {
			h.writeError(w, r, http.StatusBadRequest, fmt.Sprintf("n must be an integer between 0 and %d", maxTopN))
			return
		}
		n = parsed
	}

	snapshot, groups, ok := h.resolve(w, r)
	if !ok {
		return
	}
	h.writeData(w, r, snapshot, groups.Strategy(), newGroupList(reporting.TopN(groups, n)))
}

// HandleGetVariants returns the groups that merged more than one raw name
func (h *Handler) HandleGetVariants(w http.ResponseWriter, r *http.Request) {
	snapshot, groups, ok := h.resolve(w, r)
	if !ok {
		return
	}
	h.writeData(w, r, snapshot, groups.Strategy(), newGroupList(reporting.FindMultiVariantGroups(groups)))
}

// HandleSearch filters groups by substrings of their key.
// keywords=a,b matches any of the keywords, keyword=a a single one.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	snapshot, groups, ok := h.resolve(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	var result []*grouping.Group
	if query.Has("keywords") {
		result = reporting.FilterByAnyKeyword(groups, utils.ParseKeywords(query.Get("keywords")))
	} else {
		result = reporting.FilterByKeywordInKey(groups, query.Get("keyword"))
	}

	h.writeData(w, r, snapshot, groups.Strategy(), newGroupList(result))
}

// HandleGetGroup returns a single group by key
func (h *Handler) HandleGetGroup(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if unescaped, err := url.PathUnescape(key); err == nil {
		key = unescaped
	}

	snapshot, groups, ok := h.resolve(w, r)
	if !ok {
		return
	}

	group, found := groups.Get(key)
	if !found {
		h.writeError(w, r, http.StatusNotFound, fmt.Sprintf("group %q not found", key))
		return
	}
	h.writeData(w, r, snapshot, groups.Strategy(), group)
}

// HandleGetCategories returns the membership of every configured category
func (h *Handler) HandleGetCategories(w http.ResponseWriter, r *http.Request) {
	snapshot, groups, ok := h.resolve(w, r)
	if !ok {
		return
	}
	h.writeData(w, r, snapshot, groups.Strategy(), reporting.Categorize(groups, h.categories))
}

// HandleGetStats returns distribution figures over group totals
func (h *Handler) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	snapshot, groups, ok := h.resolve(w, r)
	if !ok {
		return
	}
	h.writeData(w, r, snapshot, groups.Strategy(), reporting.Summarize(groups))
}

type normalizeResult struct {
	Name   string   `json:"name" msgpack:"name"`
	Key    string   `json:"key" msgpack:"key"`
	Tokens []string `json:"tokens" msgpack:"tokens"`
}

// HandleNormalize previews the grouping key of a raw name
func (h *Handler) HandleNormalize(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if !query.Has("name") {
		h.writeError(w, r, http.StatusBadRequest, "name parameter is required")
		return
	}

	name := query.Get("name")
	tokens := beneficiaries.Tokens(name)
	if tokens == nil {
		tokens = []string{}
	}

	h.writeData(w, r, nil, "", normalizeResult{
		Name:   name,
		Key:    beneficiaries.Normalize(name),
		Tokens: tokens,
	})
}

// resolve loads the current snapshot and the view selected by ?by=.
// It writes the error response itself and returns ok=false on failure.
func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) (*datasets.Snapshot, *grouping.Groups, bool) {
	strategy, valid := grouping.ParseStrategy(r.URL.Query().Get("by"))
	if !valid {
		h.writeError(w, r, http.StatusBadRequest, "by must be one of: name, registration")
		return nil, nil, false
	}

	snapshot, err := h.snapshots.Current()
	if err != nil {
		if errors.Is(err, datasets.ErrNoSnapshot) {
			h.writeError(w, r, http.StatusServiceUnavailable, err.Error())
			return nil, nil, false
		}
		h.log.Error().Err(err).Msg("Failed to get current snapshot")
		h.writeError(w, r, http.StatusInternalServerError, err.Error())
		return nil, nil, false
	}

	return snapshot, snapshot.Groups(strategy), true
}

func (h *Handler) writeData(w http.ResponseWriter, r *http.Request, snapshot *datasets.Snapshot, strategy grouping.Strategy, data interface{}) {
	meta := metadata{
		Timestamp: time.Now().Format(time.RFC3339),
		Strategy:  strategy,
	}
	if snapshot != nil {
		meta.SnapshotID = snapshot.ID
	}
	h.write(w, r, http.StatusOK, response{Data: data, Metadata: meta})
}

func (h *Handler) write(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	if err := utils.WriteResponse(w, r, status, data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.write(w, r, status, map[string]string{"error": message})
}
