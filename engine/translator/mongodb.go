package translator

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskql/taskql/engine/ast"
	"github.com/taskql/taskql/mapping"
)

// MongoFilter renders expr as a MongoDB filter document.
func MongoFilter(expr ast.Expr) (bson.M, error) {
	if expr == nil {
		return nil, fmt.Errorf("nothing to translate")
	}
	return renderMongo(expr)
}

// MongoJSON renders expr as the extended-JSON form of the filter
// document, for logging and the HTTP export surface.
func MongoJSON(expr ast.Expr) (string, error) {
	filter, err := MongoFilter(expr)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(filter)
	if err != nil {
		return "", fmt.Errorf("serialize filter: %w", err)
	}
	return string(data), nil
}

func renderMongo(expr ast.Expr) (bson.M, error) {
	switch node := expr.(type) {
	case *ast.ComparisonNode:
		return renderMongoComparison(node)

	case *ast.LogicalNode:
		right, err := renderMongo(node.Right)
		if err != nil {
			return nil, err
		}
		switch node.Operator {
		case mapping.LogicNot:
			return bson.M{"$nor": bson.A{right}}, nil
		case mapping.LogicAnd, mapping.LogicOr:
			left, err := renderMongo(node.Left)
			if err != nil {
				return nil, err
			}
			key := "$and"
			if node.Operator == mapping.LogicOr {
				key = "$or"
			}
			return bson.M{key: bson.A{left, right}}, nil
		default:
			return nil, fmt.Errorf("unsupported logical operator: %s", node.Operator)
		}

	case *ast.GroupNode:
		if node.Inner == nil {
			return nil, fmt.Errorf("empty group")
		}
		return renderMongo(node.Inner)

	default:
		return nil, fmt.Errorf("unsupported node %T", expr)
	}
}

func renderMongoComparison(node *ast.ComparisonNode) (bson.M, error) {
	if err := validField(node.Field); err != nil {
		return nil, err
	}

	switch node.Operator {
	case mapping.OpEq:
		return bson.M{node.Field: node.Value}, nil
	case mapping.OpNeq:
		return bson.M{node.Field: bson.M{"$ne": node.Value}}, nil
	case mapping.OpGt:
		return bson.M{node.Field: bson.M{"$gt": node.Value}}, nil
	case mapping.OpGte:
		return bson.M{node.Field: bson.M{"$gte": node.Value}}, nil
	case mapping.OpLt:
		return bson.M{node.Field: bson.M{"$lt": node.Value}}, nil
	case mapping.OpLte:
		return bson.M{node.Field: bson.M{"$lte": node.Value}}, nil
	case mapping.OpIn:
		return bson.M{node.Field: bson.M{"$in": toBsonA(node.Values)}}, nil
	case mapping.OpNotIn:
		return bson.M{node.Field: bson.M{"$nin": toBsonA(node.Values)}}, nil
	case mapping.OpLike:
		pattern, ok := node.Value.(string)
		if !ok {
			return nil, fmt.Errorf("LIKE pattern must be a string")
		}
		return bson.M{node.Field: primitive.Regex{Pattern: likeToRegex(pattern), Options: "i"}}, nil
	case mapping.OpContains:
		// Array membership; matches scalar equality too.
		return bson.M{node.Field: node.Value}, nil
	case mapping.OpBetween:
		return bson.M{node.Field: bson.M{"$gte": node.Value, "$lte": node.Value2}}, nil
	case mapping.OpIsNull:
		return bson.M{node.Field: nil}, nil
	case mapping.OpIsNotNull:
		return bson.M{node.Field: bson.M{"$ne": nil}}, nil
	default:
		return nil, fmt.Errorf("unsupported operator: %s", node.Operator)
	}
}

func toBsonA(values []any) bson.A {
	arr := make(bson.A, len(values))
	copy(arr, values)
	return arr
}

// likeToRegex converts LIKE wildcards to an anchored regex pattern.
func likeToRegex(pattern string) string {
	escaped := regexp.QuoteMeta(pattern)
	escaped = strings.ReplaceAll(escaped, "%", ".*")
	escaped = strings.ReplaceAll(escaped, "_", ".")
	return "^" + escaped + "$"
}
