package staged

// Number covers the value types the arithmetic helpers accept.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Combine builds the node "left op right" from the two composition
// primitives: flat-map over the left operand, map over the right. The op
// label only feeds Describe.
func Combine[T, U, R any](op string, left Node[T], right Node[U], fn func(T, U) R) Node[R] {
	note := "(" + left.Describe() + " " + op + " " + right.Describe() + ")"
	return &flatMapped[T, R]{
		src: left,
		fn: func(lv T) Node[R] {
			return Map(right, func(rv U) R { return fn(lv, rv) })
		},
		note: note,
	}
}

// Apply is the unary form of Combine.
func Apply[T, U any](op string, src Node[T], fn func(T) U) Node[U] {
	return &mapped[T, U]{src: src, fn: fn, op: op}
}

func Add[T Number](left, right Node[T]) Node[T] {
	return Combine("+", left, right, func(a, b T) T { return a + b })
}

func Sub[T Number](left, right Node[T]) Node[T] {
	return Combine("-", left, right, func(a, b T) T { return a - b })
}

func Mul[T Number](left, right Node[T]) Node[T] {
	return Combine("*", left, right, func(a, b T) T { return a * b })
}

// Div inherits Go's quotient semantics: evaluating an integer division
// by zero panics, a float division by zero yields an infinity.
func Div[T Number](left, right Node[T]) Node[T] {
	return Combine("/", left, right, func(a, b T) T { return a / b })
}

func Neg[T Number](src Node[T]) Node[T] {
	return Apply("-", src, func(a T) T { return -a })
}

// Concat joins two lifted strings.
func Concat(left, right Node[string]) Node[string] {
	return Combine("++", left, right, func(a, b string) string { return a + b })
}
