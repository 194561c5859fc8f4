package server

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"RTMonitor/internal/bias"
	"RTMonitor/internal/collector"
	"RTMonitor/internal/engine"
	"RTMonitor/internal/model"
	"RTMonitor/internal/strategy"
)

// Server exposes ranked oscillator records and position trend checks
// over HTTP.
type Server struct {
	engine     *engine.Engine
	fetcher    collector.Fetcher
	biases     *bias.Cache
	categories map[string][]string
	logger     zerolog.Logger
}

// New wires the API surface. categories maps a URL category segment
// (currencies, indices, commodities) to its instrument list. biases may
// be nil when no bias store is configured.
func New(eng *engine.Engine, fetcher collector.Fetcher, biases *bias.Cache, categories map[string][]string) *Server {
	return &Server{
		engine:     eng,
		fetcher:    fetcher,
		biases:     biases,
		categories: categories,
		logger:     log.With().Str("component", "server").Logger(),
	}
}

// Router builds the gin handler tree.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", s.handleHealth)
	api := router.Group("/api")
	{
		api.GET("/rtm/:category", s.handleRTM)
		api.GET("/positions", s.handlePositions)
	}
	return router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleRTM(c *gin.Context) {
	category := c.Param("category")
	instruments, ok := s.categories[category]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown category: " + category})
		return
	}

	records := s.engine.BuildBatch(c.Request.Context(), instruments)

	var lookup strategy.BiasLookup
	if s.biases != nil {
		lookup = s.biases.Lookup
		for _, record := range records {
			record.Bias = s.biases.Lookup(record.Instrument)
		}
	}
	ranked := strategy.Rank(records, lookup)

	c.JSON(http.StatusOK, gin.H{
		"category":          category,
		"data":              ranked,
		"total_instruments": len(ranked),
	})
}

// positionStatus pairs an open position leg with its latest oscillator
// reading and trend verdict.
type positionStatus struct {
	Position    model.Position `json:"position"`
	RTMValues   []int          `json:"rtm_values"`
	AlertNeeded bool           `json:"alert_needed"`
	Description string         `json:"description"`
}

func (s *Server) handlePositions(c *gin.Context) {
	positions, err := s.fetcher.FetchOpenPositions(c.Request.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("open positions fetch failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch data"})
		return
	}
	if len(positions) == 0 {
		c.JSON(http.StatusOK, gin.H{"positions": []positionStatus{}, "total": 0})
		return
	}

	instruments := uniqueInstruments(positions)
	records := s.engine.BuildBatch(c.Request.Context(), instruments)
	byInstrument := make(map[string]*model.InstrumentRecord, len(records))
	for _, record := range records {
		byInstrument[record.Instrument] = record
	}

	// Present positions in the same order as the ranked table.
	var lookup strategy.BiasLookup
	if s.biases != nil {
		lookup = s.biases.Lookup
	}
	order := make(map[string]int, len(records))
	for i, record := range strategy.Rank(records, lookup) {
		order[record.Instrument] = i
	}
	sort.SliceStable(positions, func(i, j int) bool {
		return order[positions[i].Instrument] < order[positions[j].Instrument]
	})

	statuses := make([]positionStatus, 0, len(positions))
	for _, pos := range positions {
		status := positionStatus{Position: pos}
		if record := byInstrument[pos.Instrument]; record != nil {
			values := record.Slots[engine.DirectionSlot]
			trend := strategy.AnalyzePositionTrend(values, pos.Direction)
			status.RTMValues = values
			status.AlertNeeded = trend.AlertNeeded
			status.Description = trend.Description
		}
		statuses = append(statuses, status)
	}

	c.JSON(http.StatusOK, gin.H{"positions": statuses, "total": len(statuses)})
}

func uniqueInstruments(positions []model.Position) []string {
	seen := make(map[string]bool, len(positions))
	var out []string
	for _, p := range positions {
		if !seen[p.Instrument] {
			seen[p.Instrument] = true
			out = append(out, p.Instrument)
		}
	}
	return out
}
