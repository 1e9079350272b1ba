package author

// modifiedKey is the builder value returned by with_shift/with_ctrl/
// with_alt/with_win/with_mods, consumed only by the second overload of
// map().
type modifiedKey struct {
	key                   string // VK_ identifier, resolved later
	shift, ctrl, alt, win bool
}

// argValue is the evaluated value of one call argument: string,
// int64, []string, or modifiedKey.
type argValue interface{}

// call is one parsed function invocation, e.g. map("A", "VK_B") or the
// nested with_shift("VK_1") inside it.
type call struct {
	name string
	args []argValue
	line int
	col  int
}
