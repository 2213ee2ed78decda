package evaluator

import "lox/internal/object"

// illegalOperands marks an operator applied to a type pair it does not
// support. It is turned into a runtime error before leaving evaluate.
type illegalOperands struct{}

func (i *illegalOperands) Type() object.ObjectType { return "ILLEGAL" }
func (i *illegalOperands) Inspect() string         { return "<illegal>" }

var illegal object.Object = &illegalOperands{}

func (e *Evaluator) evalPrefixExpression(operator string, right object.Object) object.Object {
	switch operator {
	case "!":
		return object.NativeBoolToBooleanObject(!object.IsTruthy(right))
	case "-":
		return e.evalMinusPrefixOperatorExpression(right)
	default:
		return NIL
	}
}

// evalMinusPrefixOperatorExpression yields nil rather than an error for a
// non-number operand.
func (e *Evaluator) evalMinusPrefixOperatorExpression(right object.Object) object.Object {
	number, ok := right.(*object.Number)
	if !ok {
		return NIL
	}
	return &object.Number{Value: -number.Value}
}

func (e *Evaluator) evalInfixExpression(operator string, left, right object.Object) object.Object {
	switch {
	case left.Type() == object.NUMBER_OBJ && right.Type() == object.NUMBER_OBJ:
		return e.evalNumberInfixExpression(operator, left.(*object.Number).Value, right.(*object.Number).Value)
	case left.Type() == object.STRING_OBJ && right.Type() == object.STRING_OBJ:
		return e.evalStringInfixExpression(operator, left.(*object.String).Value, right.(*object.String).Value)
	case left.Type() == object.STRING_OBJ && right.Type() == object.NUMBER_OBJ,
		left.Type() == object.NUMBER_OBJ && right.Type() == object.STRING_OBJ:
		return e.evalStringPlusNumberInfixExpression(operator, left, right)
	case left.Type() == object.BOOLEAN_OBJ && right.Type() == object.BOOLEAN_OBJ:
		return e.evalEqualityOnly(operator, left.(*object.Boolean).Value == right.(*object.Boolean).Value)
	case left.Type() == object.NIL_OBJ || right.Type() == object.NIL_OBJ:
		// nil equals nil and nothing else
		return e.evalEqualityOnly(operator, left.Type() == right.Type())
	default:
		return illegal
	}
}

func (e *Evaluator) evalNumberInfixExpression(operator string, left, right float64) object.Object {
	switch operator {
	case "+":
		return &object.Number{Value: left + right}
	case "-":
		return &object.Number{Value: left - right}
	case "*":
		return &object.Number{Value: left * right}
	case "/":
		return &object.Number{Value: left / right}
	case "<":
		return object.NativeBoolToBooleanObject(left < right)
	case "<=":
		return object.NativeBoolToBooleanObject(left <= right)
	case ">":
		return object.NativeBoolToBooleanObject(left > right)
	case ">=":
		return object.NativeBoolToBooleanObject(left >= right)
	default:
		return e.evalEqualityOnly(operator, left == right)
	}
}

func (e *Evaluator) evalStringInfixExpression(operator string, left, right string) object.Object {
	if operator == "+" {
		return &object.String{Value: left + right}
	}
	return e.evalEqualityOnly(operator, left == right)
}

func (e *Evaluator) evalStringPlusNumberInfixExpression(operator string, left, right object.Object) object.Object {
	if operator != "+" {
		return illegal
	}
	return &object.String{Value: left.Inspect() + right.Inspect()}
}

// evalEqualityOnly answers == and != from a precomputed equality and
// rejects every other operator.
func (e *Evaluator) evalEqualityOnly(operator string, equal bool) object.Object {
	switch operator {
	case "==":
		return object.NativeBoolToBooleanObject(equal)
	case "!=":
		return object.NativeBoolToBooleanObject(!equal)
	default:
		return illegal
	}
}
