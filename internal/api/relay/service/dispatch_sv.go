package relayService

import (
	"DriveThruGolang/internal/api/menu"
	"DriveThruGolang/internal/api/order"
	"DriveThruGolang/internal/api/relay"
	"DriveThruGolang/pkg/agent"
	contextPkg "DriveThruGolang/pkg/context"
	"DriveThruGolang/pkg/log"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/net/context"
)

// dispatchFunctionCalls answers every call in a request frame in the
// order it arrived. Each response goes to the agent first, then to the
// browser so the order display stays in sync.
func (s *relayService) dispatchFunctionCalls(sess *session, calls []agent.FunctionCall) error {
	sess.timers.Start("function_call_total")

	lastFunction := "unknown"
	defer func() {
		sess.timers.End("function_call_total", map[string]interface{}{
			"function": lastFunction,
		})
	}()

	for _, call := range calls {
		lastFunction = call.Name

		s.log.WithFields(log.Fields{
			"session_id": sess.id,
			"function":   call.Name,
			"arguments":  call.Arguments,
		}).Info("Executing agent function call")

		content := s.executeFunctionCall(sess, call)

		raw, err := json.Marshal(agent.NewFunctionCallResponse(call.ID, call.Name, content))
		if err != nil {
			s.log.WithFields(log.Fields{
				"session_id": sess.id,
				"function":   call.Name,
			}).Errorf("Failed to encode function response: %v", err)
			continue
		}

		if err := sess.writeAgent(websocket.TextMessage, raw); err != nil {
			return err
		}
		if err := sess.writeClient(websocket.TextMessage, raw); err != nil {
			return err
		}
	}

	return nil
}

// executeFunctionCall never fails: any error becomes a structured
// error payload for the agent to recover from conversationally. Every
// call carries the same 10s deadline the HTTP handlers use.
func (s *relayService) executeFunctionCall(sess *session, call agent.FunctionCall) string {
	ctx, cancel := context.WithTimeout(contextPkg.ForSession(sess.id), 10*time.Second)
	defer cancel()

	result, err := s.invoke(ctx, sess, call)
	if err != nil {
		s.log.WithFields(log.Fields{
			"session_id": sess.id,
			"function":   call.Name,
		}).Errorf("Function call failed: %v", err)
		return s.encodeResult(sess, relay.FunctionErrorResult{Error: err.Error()})
	}

	return result
}

func (s *relayService) invoke(ctx context.Context, sess *session, call agent.FunctionCall) (string, error) {
	switch call.Name {
	case "order":
		return s.encodeResult(sess, s.order.Describe(ctx, sess.order)), nil

	case "query_items":
		var req menu.QueryItemsRequest
		if err := s.parseArguments(sess, call, &req); err != nil {
			return "", err
		}
		if err := s.validator.Struct(req); err != nil {
			return "", err
		}
		sess.convLog.EventData("FUNCTION_CALL", "query_items", map[string]interface{}{
			"query": req.Query,
			"limit": req.Limit,
		})
		resp, err := s.menu.QueryItems(ctx, req)
		if err != nil {
			return "", err
		}
		return s.encodeResult(sess, resp), nil

	case "query_modifiers":
		var req menu.QueryModifiersRequest
		if err := s.parseArguments(sess, call, &req); err != nil {
			return "", err
		}
		if err := s.validator.Struct(req); err != nil {
			return "", err
		}
		sess.convLog.EventData("FUNCTION_CALL", "query_modifiers", map[string]interface{}{
			"query":  req.Query,
			"parent": req.Parent,
			"limit":  req.Limit,
		})
		resp, err := s.menu.QueryModifiers(ctx, sess.order, req)
		if err != nil {
			return "", err
		}
		return s.encodeResult(sess, resp), nil

	case "add_item":
		var req order.AddItemRequest
		if err := s.parseArguments(sess, call, &req); err != nil {
			return "", err
		}
		if err := s.validator.Struct(req); err != nil {
			return "", err
		}
		sess.convLog.EventData("FUNCTION_CALL", "add_item", map[string]interface{}{
			"itemPathKey": req.ItemPathKey,
		})
		return s.encodeResult(sess, s.order.AddItem(ctx, sess.order, req)), nil

	case "delete_item":
		var req order.DeleteItemRequest
		if err := s.parseArguments(sess, call, &req); err != nil {
			return "", err
		}
		if err := s.validator.Struct(req); err != nil {
			return "", err
		}
		sess.convLog.EventData("FUNCTION_CALL", "delete_item", map[string]interface{}{
			"itemId": req.ItemID,
		})
		resp, err := s.order.DeleteItem(ctx, sess.order, req)
		if err != nil {
			if errors.Is(err, order.ErrItemNotFound) {
				return s.encodeResult(sess, order.DeleteItemFailure(req.ItemID)), nil
			}
			return "", err
		}
		return s.encodeResult(sess, resp), nil

	case "add_modifier":
		var req order.AddModifierRequest
		if err := s.parseArguments(sess, call, &req); err != nil {
			return "", err
		}
		if err := s.validator.Struct(req); err != nil {
			return "", err
		}
		sess.convLog.EventData("FUNCTION_CALL", "add_modifier", map[string]interface{}{
			"itemPathKey": req.ItemPathKey,
			"itemId":      req.ItemID,
		})
		resp, err := s.order.AddModifier(ctx, sess.order, req)
		if err != nil {
			if errors.Is(err, order.ErrItemNotFound) {
				return s.encodeResult(sess, relay.FunctionErrorResult{Error: order.ItemNotFoundMessage(req.ItemID)}), nil
			}
			return "", err
		}
		return s.encodeResult(sess, resp), nil

	case "submit_order_to_qu":
		sess.convLog.EventData("FUNCTION_CALL", "submit_order_to_qu", map[string]interface{}{
			"items_count": len(sess.order.Cart),
		})
		resp, err := s.order.Submit(ctx, sess.order)
		if err != nil {
			if errors.Is(err, order.ErrEmptyOrder) {
				return s.encodeResult(sess, order.EmptySubmitFailure()), nil
			}
			return "", err
		}
		return s.encodeResult(sess, resp), nil

	case "get_menu_categories":
		return s.encodeResult(sess, s.menu.Categories(ctx)), nil

	case "get_category_items":
		var req menu.CategoryItemsRequest
		if err := s.parseArguments(sess, call, &req); err != nil {
			return "", err
		}
		if err := s.validator.Struct(req); err != nil {
			return "", err
		}
		return s.encodeResult(sess, s.menu.CategoryItems(ctx, req)), nil

	default:
		s.log.WithFields(log.Fields{
			"session_id": sess.id,
			"function":   call.Name,
		}).Warn("Unknown function requested by agent")
		return s.encodeResult(sess, relay.FunctionNotFound(call.Name)), nil
	}
}

// parseArguments decodes a call's argument payload. Malformed JSON
// degrades to empty arguments, a type mismatch inside well-formed JSON
// fails the call.
func (s *relayService) parseArguments(sess *session, call agent.FunctionCall, v interface{}) error {
	if call.Arguments == "" {
		return nil
	}

	if !json.Valid([]byte(call.Arguments)) {
		s.log.WithFields(log.Fields{
			"session_id": sess.id,
			"function":   call.Name,
			"arguments":  call.Arguments,
		}).Warn("Malformed function arguments, treating as empty")
		return nil
	}

	if err := json.UnmarshalFromString(call.Arguments, v); err != nil {
		return fmt.Errorf("invalid arguments for %s: %w", call.Name, err)
	}

	return nil
}

func (s *relayService) encodeResult(sess *session, v interface{}) string {
	raw, err := json.Marshal(v)
	if err != nil {
		s.log.WithFields(log.Fields{
			"session_id": sess.id,
		}).Errorf("Failed to encode function result: %v", err)
		return `{"error": "internal encoding failure", "success": false}`
	}
	return string(raw)
}
