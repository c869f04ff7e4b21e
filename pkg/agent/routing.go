package agent

import (
	"fmt"

	"github.com/SriHarshitha88/Multi-Agent-Tutor/pkg/models"
)

// Routing actions.
const (
	ActionDelegate = "delegate"
	ActionDirect   = "handle_directly"
)

// Routing function names offered to the model.
const (
	fnRouteMath    = "route_to_math_agent"
	fnRoutePhysics = "route_to_physics_agent"
	fnHandleDirect = "handle_general_query"
)

// RoutingDecision is the coordinator's choice for one query. Derived per
// query, never persisted.
type RoutingDecision struct {
	Action      string `json:"action"`
	HandlerKey  string `json:"handler_key,omitempty"`
	HandlerName string `json:"handler_name,omitempty"`
	Reasoning   string `json:"reasoning"`
}

// Keyword sets for the deterministic routing fallback. Deliberately
// narrower than the specialists' own keyword lists; the two heuristics
// are tuned independently.
var (
	routingMathKeywords    = []string{"math", "equation", "algebra", "calculate"}
	routingPhysicsKeywords = []string{"physics", "force", "energy", "motion"}
)

func routingDeclarations() []models.FunctionDeclaration {
	queryProp := func(desc string) map[string]string {
		return map[string]string{
			"query":     desc,
			"reasoning": "Brief explanation of the routing choice",
		}
	}
	required := []string{"query", "reasoning"}

	return []models.FunctionDeclaration{
		{
			Name:        fnRouteMath,
			Description: "Route the query to the Math Agent for mathematical problems including algebra, geometry, calculus, arithmetic, and general math questions. The Math Agent will provide explanations and solutions.",
			Properties:  queryProp("The mathematical query to be handled by the Math Agent"),
			Required:    required,
		},
		{
			Name:        fnRoutePhysics,
			Description: "Route the query to the Physics Agent for physics problems including mechanics, electricity, magnetism, thermodynamics, forces, energy, and general physics concepts. The Physics Agent will provide explanations and insights.",
			Properties:  queryProp("The physics query to be handled by the Physics Agent"),
			Required:    required,
		},
		{
			Name:        fnHandleDirect,
			Description: "Handle the query directly as a general tutor for non-specialized topics like history, literature, general knowledge, or mixed subjects. The general tutor will provide a comprehensive answer.",
			Properties:  queryProp("The general query to be handled directly"),
			Required:    required,
		},
	}
}

func routingPrompt(q Query) string {
	contextText := q.Context
	if contextText == "" {
		contextText = "None provided"
	}
	return fmt.Sprintf(`Analyze this student query and decide how to handle it:

Student Query: %q

Context: %s

Use the appropriate function to route this query. Consider:
- Subject matter (Math, Physics, or General)
- Student's likely learning needs

Be decisive. Choose '%s' for math, '%s' for physics, or '%s' for others.`,
		q.Text, contextText, fnRouteMath, fnRoutePhysics, fnHandleDirect)
}

// decisionFromCall maps a recognized routing function call onto a
// RoutingDecision. An unrecognized name degrades to direct handling.
func decisionFromCall(call models.FunctionCall) RoutingDecision {
	reasoning := func(fallback string) string {
		if r, ok := call.Args["reasoning"].(string); ok && r != "" {
			return r
		}
		return fallback
	}

	switch call.Name {
	case fnRouteMath:
		return RoutingDecision{Action: ActionDelegate, HandlerKey: "math", HandlerName: "Math Tutor", Reasoning: reasoning("Math-related query")}
	case fnRoutePhysics:
		return RoutingDecision{Action: ActionDelegate, HandlerKey: "physics", HandlerName: "Physics Tutor", Reasoning: reasoning("Physics-related query")}
	case fnHandleDirect:
		return RoutingDecision{Action: ActionDirect, Reasoning: reasoning("General knowledge query")}
	default:
		return RoutingDecision{Action: ActionDirect, Reasoning: fmt.Sprintf("Unrecognized routing function %q, handling directly.", call.Name)}
	}
}

// keywordRoute is the deterministic fallback applied when the routing
// model is unreachable or unusable. cause is recorded in the reasoning.
func keywordRoute(lowerText, cause string) RoutingDecision {
	if containsAny(lowerText, routingMathKeywords...) {
		return RoutingDecision{
			Action: ActionDelegate, HandlerKey: "math", HandlerName: "Math Tutor",
			Reasoning: fmt.Sprintf("Fallback (%s) - math keywords detected.", cause),
		}
	}
	if containsAny(lowerText, routingPhysicsKeywords...) {
		return RoutingDecision{
			Action: ActionDelegate, HandlerKey: "physics", HandlerName: "Physics Tutor",
			Reasoning: fmt.Sprintf("Fallback (%s) - physics keywords detected.", cause),
		}
	}
	return RoutingDecision{
		Action:    ActionDirect,
		Reasoning: fmt.Sprintf("Fallback (%s) - no specific keywords.", cause),
	}
}
