package fakeapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"questrpg/pkg/models"
	"questrpg/pkg/utils"
)

func respond(c *gin.Context, status int, body interface{}, apiErr *apiError) {
	if apiErr != nil {
		if len(apiErr.fields) > 0 {
			c.AbortWithStatusJSON(apiErr.status, gin.H{"detail": apiErr.fields})
			return
		}
		abortDetail(c, apiErr.status, apiErr.detail)
		return
	}
	c.JSON(status, body)
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		abortDetail(c, http.StatusUnprocessableEntity, "invalid request body")
		return false
	}
	return true
}

func queryLimit(c *gin.Context) int {
	n, err := strconv.Atoi(c.Query("limit"))
	if err != nil {
		return 0
	}
	return n
}

// locked runs fn with the state mutex held.
func (s *Server) locked(fn func(st *state)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.state)
}

// Auth

func (s *Server) tokenFor(acc *account) (*models.TokenResponse, error) {
	tok, expires, err := s.auth.generateToken(acc.user.ID)
	if err != nil {
		return nil, err
	}
	return &models.TokenResponse{
		AccessToken: tok,
		TokenType:   "bearer",
		ExpiresIn:   expires,
		User:        s.state.userView(acc),
	}, nil
}

func (s *Server) login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	s.mu.Lock()
	acc := s.state.findByEmail(strings.TrimSpace(req.Email))
	s.mu.Unlock()
	if acc == nil {
		abortDetail(c, http.StatusUnauthorized, errInvalidCredentials.Error())
		return
	}
	if err := checkPassword(acc.passwordHash, req.Password); err != nil {
		abortDetail(c, http.StatusUnauthorized, err.Error())
		return
	}

	s.mu.Lock()
	resp, err := s.tokenFor(acc)
	s.mu.Unlock()
	if err != nil {
		abortDetail(c, http.StatusInternalServerError, "could not issue token")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) register(c *gin.Context) {
	var req models.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	for _, err := range []error{
		utils.ValidateUsername(req.Username),
		utils.ValidateEmail(req.Email),
		utils.ValidatePassword(req.Password),
	} {
		if err != nil {
			respond(c, 0, nil, invalid(err))
			return
		}
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		abortDetail(c, http.StatusInternalServerError, "could not hash password")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc, apiErr := s.state.register(req, hash)
	if apiErr != nil {
		respond(c, 0, nil, apiErr)
		return
	}
	resp, err := s.tokenFor(acc)
	if err != nil {
		abortDetail(c, http.StatusInternalServerError, "could not issue token")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (s *Server) me(c *gin.Context) {
	s.locked(func(st *state) {
		c.JSON(http.StatusOK, st.userView(st.users[currentUserID(c)]))
	})
}

func (s *Server) onboarding(c *gin.Context) {
	var req models.OnboardingRequest
	if !bindJSON(c, &req) {
		return
	}
	s.locked(func(st *state) {
		u, apiErr := st.onboard(currentUserID(c), req.GoalCategories)
		respond(c, http.StatusOK, u, apiErr)
	})
}

// Stats

func (s *Server) profile(c *gin.Context) {
	s.locked(func(st *state) {
		c.JSON(http.StatusOK, st.profile(currentUserID(c)))
	})
}

func (s *Server) streaks(c *gin.Context) {
	s.locked(func(st *state) {
		c.JSON(http.StatusOK, st.streakList(currentUserID(c)))
	})
}

func (s *Server) leaderboard(c *gin.Context) {
	limit := queryLimit(c)
	s.locked(func(st *state) {
		c.JSON(http.StatusOK, st.leaderboard(limit))
	})
}

// Daily runs

func (s *Server) todayRun(c *gin.Context) {
	s.locked(func(st *state) {
		c.JSON(http.StatusOK, st.todayRun(currentUserID(c)).Clone())
	})
}

func (s *Server) runHistory(c *gin.Context) {
	limit := queryLimit(c)
	s.locked(func(st *state) {
		c.JSON(http.StatusOK, st.runHistory(currentUserID(c), limit))
	})
}

func (s *Server) toggleQuest(c *gin.Context) {
	s.locked(func(st *state) {
		res, apiErr := st.toggleQuest(currentUserID(c), c.Param("run_id"), c.Param("completion_id"))
		respond(c, http.StatusOK, res, apiErr)
	})
}

func (s *Server) completeRun(c *gin.Context) {
	s.locked(func(st *state) {
		res, apiErr := st.completeRun(currentUserID(c), c.Param("run_id"))
		respond(c, http.StatusOK, res, apiErr)
	})
}

// Goals

func (s *Server) listGoals(c *gin.Context) {
	s.locked(func(st *state) {
		c.JSON(http.StatusOK, st.listGoals(currentUserID(c)))
	})
}

func (s *Server) createGoal(c *gin.Context) {
	var req models.GoalCreate
	if !bindJSON(c, &req) {
		return
	}
	s.locked(func(st *state) {
		g, apiErr := st.createGoal(currentUserID(c), req)
		respond(c, http.StatusCreated, g, apiErr)
	})
}

func (s *Server) updateGoal(c *gin.Context) {
	var req models.GoalUpdate
	if !bindJSON(c, &req) {
		return
	}
	s.locked(func(st *state) {
		g, apiErr := st.updateGoal(currentUserID(c), c.Param("goal_id"), req)
		respond(c, http.StatusOK, g, apiErr)
	})
}

func (s *Server) deleteGoal(c *gin.Context) {
	s.locked(func(st *state) {
		apiErr := st.deleteGoal(currentUserID(c), c.Param("goal_id"))
		respond(c, http.StatusOK, models.MessageResponse{Message: "Goal deleted successfully"}, apiErr)
	})
}

func (s *Server) addMilestone(c *gin.Context) {
	var req models.MilestoneInput
	if !bindJSON(c, &req) {
		return
	}
	s.locked(func(st *state) {
		g, apiErr := st.addMilestone(currentUserID(c), c.Param("goal_id"), req.Title)
		respond(c, http.StatusCreated, g, apiErr)
	})
}

func (s *Server) updateMilestone(c *gin.Context) {
	var req models.MilestoneInput
	if !bindJSON(c, &req) {
		return
	}
	s.locked(func(st *state) {
		m, apiErr := st.updateMilestone(currentUserID(c), c.Param("milestone_id"), req.Title)
		respond(c, http.StatusOK, m, apiErr)
	})
}

func (s *Server) deleteMilestone(c *gin.Context) {
	s.locked(func(st *state) {
		apiErr := st.deleteMilestone(currentUserID(c), c.Param("milestone_id"))
		respond(c, http.StatusOK, models.MessageResponse{Message: "Milestone deleted successfully"}, apiErr)
	})
}

func (s *Server) toggleMilestone(c *gin.Context) {
	s.locked(func(st *state) {
		g, apiErr := st.toggleMilestone(currentUserID(c), c.Param("milestone_id"))
		respond(c, http.StatusOK, g, apiErr)
	})
}

// Decay

func (s *Server) decayStatus(c *gin.Context) {
	s.locked(func(st *state) {
		c.JSON(http.StatusOK, st.decayStatus(currentUserID(c)))
	})
}

func (s *Server) decayHistory(c *gin.Context) {
	limit := queryLimit(c)
	s.locked(func(st *state) {
		c.JSON(http.StatusOK, st.decayHistory(currentUserID(c), limit))
	})
}

// Weekly challenge

func (s *Server) currentChallenge(c *gin.Context) {
	s.locked(func(st *state) {
		c.JSON(http.StatusOK, st.currentChallenge(currentUserID(c)))
	})
}

func (s *Server) completeChallenge(c *gin.Context) {
	s.locked(func(st *state) {
		res, apiErr := st.completeChallenge(currentUserID(c), c.Param("challenge_id"))
		respond(c, http.StatusOK, res, apiErr)
	})
}

func (s *Server) challengeHistory(c *gin.Context) {
	s.locked(func(st *state) {
		c.JSON(http.StatusOK, st.challengeHistory(currentUserID(c)))
	})
}

// Test controls

// DemoUserID returns the id of the seeded demo account.
func (s *Server) DemoUserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if acc := s.state.findByEmail(DemoEmail); acc != nil {
		return acc.user.ID
	}
	return ""
}

// SetLastActivity moves a user's last activity, e.g. to age them into decay.
func (s *Server) SetLastActivity(userID string, t time.Time) {
	s.locked(func(st *state) {
		if acc, ok := st.users[userID]; ok {
			acc.lastActivity = t
		}
	})
}

// ApplyDecay charges pending decay for userID and reports the record.
func (s *Server) ApplyDecay(userID string) (models.DecayRecord, bool) {
	var (
		rec models.DecayRecord
		ok  bool
	)
	s.locked(func(st *state) {
		if _, known := st.users[userID]; known {
			rec, ok = st.applyDecay(userID)
		}
	})
	return rec, ok
}

// TotalXP reports the backend's XP total for userID.
func (s *Server) TotalXP(userID string) int {
	var xp int
	s.locked(func(st *state) {
		if _, known := st.users[userID]; known {
			xp = st.totalXP(userID)
		}
	})
	return xp
}
