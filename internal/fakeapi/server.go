// Package fakeapi is an in-memory implementation of the quest backend REST
// API. It backs the client tests and `quest-fakeapi` for local development.
package fakeapi

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"questrpg/pkg/logger"
)

// APIPrefix is where every route is mounted.
const APIPrefix = "/api/v1"

// Route names: the HTTP method plus the route template below APIPrefix.
const (
	RouteLogin             = "POST /auth/login"
	RouteRegister          = "POST /auth/register"
	RouteMe                = "GET /auth/me"
	RouteOnboarding        = "POST /auth/onboarding"
	RouteProfile           = "GET /stats/profile"
	RouteStreaks           = "GET /stats/streaks"
	RouteLeaderboard       = "GET /stats/leaderboard"
	RouteTodayRun          = "GET /daily-runs/today"
	RouteRunHistory        = "GET /daily-runs/history/all"
	RouteToggleQuest       = "POST /daily-runs/:run_id/complete-quest/:completion_id"
	RouteCompleteRun       = "POST /daily-runs/:run_id/complete"
	RouteListGoals         = "GET /goals/"
	RouteCreateGoal        = "POST /goals/"
	RouteUpdateGoal        = "PUT /goals/:goal_id"
	RouteDeleteGoal        = "DELETE /goals/:goal_id"
	RouteAddMilestone      = "POST /goals/:goal_id/milestones"
	RouteUpdateMilestone   = "PUT /goals/milestones/:milestone_id"
	RouteDeleteMilestone   = "DELETE /goals/milestones/:milestone_id"
	RouteToggleMilestone   = "POST /goals/milestones/:milestone_id/toggle"
	RouteDecayStatus       = "GET /decay/status"
	RouteDecayHistory      = "GET /decay/history"
	RouteChallenge         = "GET /weekly-challenge/current"
	RouteCompleteChallenge = "POST /weekly-challenge/complete/:challenge_id"
	RouteChallengeHistory  = "GET /weekly-challenge/history"
)

type fault struct {
	status int
	detail string
}

// Server manages the fake HTTP API
type Server struct {
	router *gin.Engine
	auth   *authService

	mu    sync.Mutex
	state *state

	ctlMu  sync.Mutex
	hits   map[string]int
	faults map[string][]fault
	blocks map[string]chan struct{}
}

// Options tunes the fake backend.
type Options struct {
	JWTSecret string
	TokenTTL  time.Duration
	// DaysRequired is how many perfect locked weekdays unlock the weekly
	// challenge.
	DaysRequired int
	// Now overrides the clock.
	Now func() time.Time
	// AccessLog enables per-request logging.
	AccessLog bool
}

// New creates a fake backend seeded with the demo account.
func New(opts Options) *Server {
	if opts.JWTSecret == "" {
		opts.JWTSecret = "quest-fake-secret"
	}
	if opts.TokenTTL == 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	if opts.DaysRequired <= 0 {
		opts.DaysRequired = 5
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	if opts.AccessLog {
		router.Use(accessLog())
	}

	s := &Server{
		router: router,
		state:  newState(opts.Now, opts.DaysRequired),
		hits:   make(map[string]int),
		faults: make(map[string][]fault),
		blocks: make(map[string]chan struct{}),
	}
	s.auth = newAuthService(s, []byte(opts.JWTSecret), opts.TokenTTL)
	s.state.seed()
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Format(time.RFC3339)})
	})

	v1 := s.router.Group(APIPrefix, s.control())
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", s.login)
			auth.POST("/register", s.register)
			auth.GET("/me", s.authenticate(), s.me)
			auth.POST("/onboarding", s.authenticate(), s.onboarding)
		}

		protected := v1.Group("", s.authenticate())
		{
			protected.GET("/stats/profile", s.profile)
			protected.GET("/stats/streaks", s.streaks)
			protected.GET("/stats/leaderboard", s.leaderboard)

			protected.GET("/daily-runs/today", s.todayRun)
			protected.GET("/daily-runs/history/all", s.runHistory)
			protected.POST("/daily-runs/:run_id/complete-quest/:completion_id", s.toggleQuest)
			protected.POST("/daily-runs/:run_id/complete", s.completeRun)

			protected.GET("/goals/", s.listGoals)
			protected.POST("/goals/", s.createGoal)
			protected.PUT("/goals/:goal_id", s.updateGoal)
			protected.DELETE("/goals/:goal_id", s.deleteGoal)
			protected.POST("/goals/:goal_id/milestones", s.addMilestone)
			protected.PUT("/goals/milestones/:milestone_id", s.updateMilestone)
			protected.DELETE("/goals/milestones/:milestone_id", s.deleteMilestone)
			protected.POST("/goals/milestones/:milestone_id/toggle", s.toggleMilestone)

			protected.GET("/decay/status", s.decayStatus)
			protected.GET("/decay/history", s.decayHistory)

			protected.GET("/weekly-challenge/current", s.currentChallenge)
			protected.POST("/weekly-challenge/complete/:challenge_id", s.completeChallenge)
			protected.GET("/weekly-challenge/history", s.challengeHistory)
		}
	}
}

// Router returns the gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}

// routeName is "METHOD /template" for the matched route.
func routeName(c *gin.Context) string {
	return c.Request.Method + " " + strings.TrimPrefix(c.FullPath(), APIPrefix)
}

// control counts hits, holds blocked routes and serves injected faults.
func (s *Server) control() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := routeName(c)

		s.ctlMu.Lock()
		s.hits[name]++
		gate := s.blocks[name]
		var f *fault
		if queue := s.faults[name]; len(queue) > 0 {
			f = &queue[0]
			s.faults[name] = queue[1:]
		}
		s.ctlMu.Unlock()

		if gate != nil {
			select {
			case <-gate:
			case <-c.Request.Context().Done():
				c.Abort()
				return
			}
		}
		if f != nil {
			abortDetail(c, f.status, f.detail)
			return
		}
		c.Next()
	}
}

// FailNext makes the next call of route answer status with detail.
func (s *Server) FailNext(route string, status int, detail string) {
	s.ctlMu.Lock()
	s.faults[route] = append(s.faults[route], fault{status: status, detail: detail})
	s.ctlMu.Unlock()
}

// Hits returns how many requests route has received.
func (s *Server) Hits(route string) int {
	s.ctlMu.Lock()
	defer s.ctlMu.Unlock()
	return s.hits[route]
}

// ResetHits zeroes all counters.
func (s *Server) ResetHits() {
	s.ctlMu.Lock()
	s.hits = make(map[string]int)
	s.ctlMu.Unlock()
}

// Block holds every request to route until the returned release func runs.
func (s *Server) Block(route string) (release func()) {
	gate := make(chan struct{})
	s.ctlMu.Lock()
	s.blocks[route] = gate
	s.ctlMu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			s.ctlMu.Lock()
			if s.blocks[route] == gate {
				delete(s.blocks, route)
			}
			s.ctlMu.Unlock()
			close(gate)
		})
	}
}

func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		ctx := logger.ContextWithRequestID(c.Request.Context(), id)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
		logger.WithRequestID(ctx).Info(fmt.Sprintf("%s %s %d %dms",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start).Milliseconds()))
	}
}

func abortDetail(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}
