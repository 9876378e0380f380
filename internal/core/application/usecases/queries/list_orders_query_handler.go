package queries

import (
	"context"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListOrdersQueryResponse struct {
	Code      string
	GroupCode string
	ShopID    kernel.UUID
	ShopName  string
	Status    order.Status
	Total     int64
	PlacedAt  time.Time
}

// ListOrdersQueryHandler reads order summaries straight from the orders table.
// Aggregates are not restored; the summary columns are enough for a list.
//
// Example:
//
//	handler := NewListOrdersQueryHandler(db)
//	shipped := order.Shipped
//	query, _ := NewListOrdersQuery(actor, &shipped, 20, 0)
//
//	page, err := handler.Handle(ctx, query)
type ListOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db}
}

func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]ListOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var (
		where []string
		args  []any
	)
	actor := query.Actor()
	switch actor.Role {
	case order.RoleBuyer:
		where = append(where, "buyer_id = ?")
		args = append(args, actor.UserID.Bytes())
	case order.RoleSeller:
		if actor.ShopID == nil {
			return []ListOrdersQueryResponse{}, nil
		}
		where = append(where, "shop_id = ?")
		args = append(args, actor.ShopID.Bytes())
	case order.RoleAdmin:
	default:
		return []ListOrdersQueryResponse{}, nil
	}
	if query.Status() != nil {
		where = append(where, "status = ?")
		args = append(args, query.Status().String())
	}

	sql := `
		SELECT
			code,
			group_code,
			shop_id,
			shop_name,
			status,
			total,
			placed_at
		FROM orders`
	if len(where) > 0 {
		sql += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	sql += "\n\t\tORDER BY placed_at DESC, code DESC\n\t\tLIMIT ? OFFSET ?"
	args = append(args, query.Limit(), query.Offset())

	rows, err := h.db.WithContext(ctx).Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]ListOrdersQueryResponse, 0)
	for rows.Next() {
		var (
			resp   ListOrdersQueryResponse
			shopID uuid.UUID
			status string
		)
		if err = rows.Scan(
			&resp.Code,
			&resp.GroupCode,
			&shopID,
			&resp.ShopName,
			&status,
			&resp.Total,
			&resp.PlacedAt,
		); err != nil {
			return nil, err
		}

		if resp.ShopID, err = kernel.UUIDFromBytes(shopID[:]); err != nil {
			return nil, err
		}
		if resp.Status, err = order.ParseStatus(status); err != nil {
			return nil, err
		}
		resp.PlacedAt = resp.PlacedAt.UTC()
		result = append(result, resp)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
