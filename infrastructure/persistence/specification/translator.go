/*
Package specification translates domain specifications into storage queries.
Composites (And/Or/Not) are handled generically; each backend supplies the
leaf mapping for the concrete specifications it understands. An unknown
specification is an error rather than a silently dropped filter.
*/
package specification

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/cancellation"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/order"
	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"

	"go.mongodb.org/mongo-driver/bson"
	"gorm.io/gorm"
)

// ErrUnsupported is wrapped when a backend has no mapping for a specification
var ErrUnsupported = errors.New("unsupported specification")

// SQLCondition is a parameterized WHERE fragment
type SQLCondition struct {
	Query string
	Args  []any
}

// Scope applies the condition; an empty condition matches everything
func (c SQLCondition) Scope(db *gorm.DB) *gorm.DB {
	if c.Query == "" {
		return db
	}
	return db.Where(c.Query, c.Args...)
}

// ToSQL translates spec with leaf for the concrete specifications; nil spec matches all.
func ToSQL[T any](spec shared.Specification[T], leaf func(shared.Specification[T]) (SQLCondition, bool)) (SQLCondition, error) {
	if spec == nil {
		return SQLCondition{}, nil
	}
	switch s := spec.(type) {
	case shared.AndSpecification[T]:
		return joinSQL(s.Left, s.Right, "AND", leaf)
	case shared.OrSpecification[T]:
		return joinSQL(s.Left, s.Right, "OR", leaf)
	case shared.NotSpecification[T]:
		inner, err := ToSQL(s.Spec, leaf)
		if err != nil {
			return SQLCondition{}, err
		}
		if inner.Query == "" {
			// NOT(全部) 不匹配任何行
			return SQLCondition{Query: "1 = 0"}, nil
		}
		return SQLCondition{Query: "NOT (" + inner.Query + ")", Args: inner.Args}, nil
	}
	if cond, ok := leaf(spec); ok {
		return cond, nil
	}
	return SQLCondition{}, fmt.Errorf("%w: %T", ErrUnsupported, spec)
}

func joinSQL[T any](left, right shared.Specification[T], op string, leaf func(shared.Specification[T]) (SQLCondition, bool)) (SQLCondition, error) {
	l, err := ToSQL(left, leaf)
	if err != nil {
		return SQLCondition{}, err
	}
	r, err := ToSQL(right, leaf)
	if err != nil {
		return SQLCondition{}, err
	}
	switch {
	case l.Query == "":
		return r, nil
	case r.Query == "":
		return l, nil
	}
	return SQLCondition{
		Query: "(" + l.Query + ") " + op + " (" + r.Query + ")",
		Args:  append(append([]any{}, l.Args...), r.Args...),
	}, nil
}

// ToBSON translates spec into a MongoDB filter; nil spec matches all.
func ToBSON[T any](spec shared.Specification[T], leaf func(shared.Specification[T]) (bson.M, bool)) (bson.M, error) {
	if spec == nil {
		return bson.M{}, nil
	}
	switch s := spec.(type) {
	case shared.AndSpecification[T]:
		return joinBSON(s.Left, s.Right, "$and", leaf)
	case shared.OrSpecification[T]:
		return joinBSON(s.Left, s.Right, "$or", leaf)
	case shared.NotSpecification[T]:
		inner, err := ToBSON(s.Spec, leaf)
		if err != nil {
			return nil, err
		}
		return bson.M{"$nor": bson.A{inner}}, nil
	}
	if filter, ok := leaf(spec); ok {
		return filter, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupported, spec)
}

func joinBSON[T any](left, right shared.Specification[T], op string, leaf func(shared.Specification[T]) (bson.M, bool)) (bson.M, error) {
	l, err := ToBSON(left, leaf)
	if err != nil {
		return nil, err
	}
	r, err := ToBSON(right, leaf)
	if err != nil {
		return nil, err
	}
	return bson.M{op: bson.A{l, r}}, nil
}

// ============================================================================
// 订单
// ============================================================================

func orderSQLLeaf(spec shared.Specification[*order.Order]) (SQLCondition, bool) {
	switch s := spec.(type) {
	case order.ByUserIDSpecification:
		return SQLCondition{Query: "user_id = ?", Args: []any{s.UserID}}, true
	case order.ByStatusSpecification:
		return SQLCondition{Query: "status = ?", Args: []any{string(s.Status)}}, true
	case order.NeedsReviewSpecification:
		return SQLCondition{Query: "needs_review = ?", Args: []any{true}}, true
	case order.ByDateRangeSpecification:
		var parts []string
		var args []any
		if !s.Start.IsZero() {
			parts = append(parts, "created_at >= ?")
			args = append(args, s.Start)
		}
		if !s.End.IsZero() {
			parts = append(parts, "created_at <= ?")
			args = append(args, s.End)
		}
		return SQLCondition{Query: strings.Join(parts, " AND "), Args: args}, true
	}
	return SQLCondition{}, false
}

func orderBSONLeaf(spec shared.Specification[*order.Order]) (bson.M, bool) {
	switch s := spec.(type) {
	case order.ByUserIDSpecification:
		return bson.M{"user": s.UserID}, true
	case order.ByStatusSpecification:
		return bson.M{"status": string(s.Status)}, true
	case order.NeedsReviewSpecification:
		return bson.M{"needsReview": true}, true
	case order.ByDateRangeSpecification:
		rng := bson.M{}
		if !s.Start.IsZero() {
			rng["$gte"] = s.Start
		}
		if !s.End.IsZero() {
			rng["$lte"] = s.End
		}
		if len(rng) == 0 {
			return bson.M{}, true
		}
		return bson.M{"createdAt": rng}, true
	}
	return nil, false
}

// OrderSQL 订单规格 → SQL 条件
func OrderSQL(spec shared.Specification[*order.Order]) (SQLCondition, error) {
	return ToSQL(spec, orderSQLLeaf)
}

// OrderBSON 订单规格 → Mongo 过滤器
func OrderBSON(spec shared.Specification[*order.Order]) (bson.M, error) {
	return ToBSON(spec, orderBSONLeaf)
}

// ============================================================================
// 取消申请台账
// ============================================================================

func cancellationSQLLeaf(spec shared.Specification[*cancellation.Request]) (SQLCondition, bool) {
	switch s := spec.(type) {
	case cancellation.ByStatusSpecification:
		return SQLCondition{Query: "status = ?", Args: []any{string(s.Status)}}, true
	case cancellation.ByOrderIDSpecification:
		return SQLCondition{Query: "order_id = ?", Args: []any{s.OrderID}}, true
	}
	return SQLCondition{}, false
}

func cancellationBSONLeaf(spec shared.Specification[*cancellation.Request]) (bson.M, bool) {
	switch s := spec.(type) {
	case cancellation.ByStatusSpecification:
		return bson.M{"status": string(s.Status)}, true
	case cancellation.ByOrderIDSpecification:
		return bson.M{"order": s.OrderID}, true
	}
	return nil, false
}

// CancellationSQL 台账规格 → SQL 条件
func CancellationSQL(spec shared.Specification[*cancellation.Request]) (SQLCondition, error) {
	return ToSQL(spec, cancellationSQLLeaf)
}

// CancellationBSON 台账规格 → Mongo 过滤器
func CancellationBSON(spec shared.Specification[*cancellation.Request]) (bson.M, error) {
	return ToBSON(spec, cancellationBSONLeaf)
}
