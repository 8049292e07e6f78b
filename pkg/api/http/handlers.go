package http

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskorch/taskorch/internal/application/orchestrator"
	"go.uber.org/zap"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details.
type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// AgentRunResponse is the response for a single-agent execution.
type AgentRunResponse struct {
	Agent     string    `json:"agent"`
	Success   bool      `json:"success"`
	Result    any       `json:"result"`
	Timestamp time.Time `json:"timestamp"`
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, s.orchestrator.Health())
}

// handleRunAll triggers all agents in dependency order.
func (s *Server) handleRunAll(c *gin.Context) {
	retryFailed, err := parseBoolQuery(c, "retry_failed", true)
	if err != nil {
		badRequest(c, "INVALID_QUERY", err.Error())
		return
	}
	maxRetries, err := parseIntQuery(c, "max_retries", 3)
	if err != nil {
		badRequest(c, "INVALID_QUERY", err.Error())
		return
	}

	report, err := s.orchestrator.RunEverything(c.Request.Context(), retryFailed, maxRetries)
	if err != nil {
		s.logger.Error("run failed to start", zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error: ErrorDetail{
				Code:    "RESOLUTION_FAILED",
				Message: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, report)
}

// handleRunAgent triggers a single agent by name.
func (s *Server) handleRunAgent(c *gin.Context) {
	name := c.Param("name")

	result, err := s.orchestrator.RunOne(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, orchestrator.ErrAgentNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error: ErrorDetail{
					Code:    "AGENT_NOT_FOUND",
					Message: "Agent " + name + " not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{
				Code:    "EXECUTION_FAILED",
				Message: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, AgentRunResponse{
		Agent:     name,
		Success:   true,
		Result:    result,
		Timestamp: time.Now(),
	})
}

// handleRunPhase triggers a named orchestration phase.
func (s *Server) handleRunPhase(c *gin.Context) {
	name := c.Param("name")

	report, err := s.orchestrator.RunPhase(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, orchestrator.ErrPhaseNotFound) {
			phases := s.orchestrator.Phases()
			sort.Strings(phases)
			badRequest(c, "INVALID_PHASE",
				"Invalid phase. Valid phases: "+strings.Join(phases, ", "))
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{
				Code:    "PHASE_FAILED",
				Message: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, report)
}

// handleListAgents lists all registered agents with their dependencies.
func (s *Server) handleListAgents(c *gin.Context) {
	c.JSON(http.StatusOK, s.orchestrator.ListAgents())
}

// handleAgentStatus returns the detailed status of one agent.
func (s *Server) handleAgentStatus(c *gin.Context) {
	name := c.Param("name")

	report, err := s.orchestrator.AgentStatus(name)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: ErrorDetail{
				Code:    "AGENT_NOT_FOUND",
				Message: "Agent " + name + " not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, report)
}

// handleDependencyGraph returns the dependency graph view.
func (s *Server) handleDependencyGraph(c *gin.Context) {
	c.JSON(http.StatusOK, s.orchestrator.DependencyGraph())
}

// handleSystemStatus returns the overall orchestration system status.
func (s *Server) handleSystemStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.orchestrator.SystemStatus())
}

// handleDashboard returns the dashboard summary.
func (s *Server) handleDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, s.orchestrator.Dashboard())
}

// handleExecutionLog returns a page of the execution log.
func (s *Server) handleExecutionLog(c *gin.Context) {
	limit, err := parseIntQuery(c, "limit", 100)
	if err != nil {
		badRequest(c, "INVALID_QUERY", err.Error())
		return
	}
	offset, err := parseIntQuery(c, "offset", 0)
	if err != nil {
		badRequest(c, "INVALID_QUERY", err.Error())
		return
	}

	c.JSON(http.StatusOK, s.orchestrator.ExecutionLog(limit, offset))
}

// handleValidate validates the dependency graph without executing.
func (s *Server) handleValidate(c *gin.Context) {
	c.JSON(http.StatusOK, s.orchestrator.Validate())
}

// handleReset clears all statuses and the execution log.
func (s *Server) handleReset(c *gin.Context) {
	report := s.orchestrator.Reset()
	c.JSON(http.StatusOK, gin.H{
		"message":        "All agent statuses and logs have been reset",
		"previous_state": report,
		"timestamp":      time.Now(),
	})
}

func badRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

func parseIntQuery(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("invalid integer for " + name + ": " + raw)
	}
	return value, nil
}

func parseBoolQuery(c *gin.Context, name string, def bool) (bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errors.New("invalid boolean for " + name + ": " + raw)
	}
	return value, nil
}
