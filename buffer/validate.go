package buffer

// RequireNdim reports BadShape if v does not have exactly ndim axes.
func RequireNdim(v View, arg string, ndim int, expected string) error {
	if v.Ndim() != ndim {
		return &BadShape{Arg: arg, Expected: expected}
	}
	return nil
}

// RequireFirstAxis reports BadShape if v's first axis is not exactly n.
func RequireFirstAxis(v View, arg string, n int, expected string) error {
	if v.Dim(0) != n {
		return &BadShape{Arg: arg, Expected: expected}
	}
	return nil
}

// RequireMinAxis reports BadShape if v's axis i has fewer than min
// elements (used for the boresight/offset "n_coord >= 4" / ">= 3" checks).
func RequireMinAxis(v View, arg string, axis, min int, expected string) error {
	if v.Dim(axis) < min {
		return &BadShape{Arg: arg, Expected: expected}
	}
	return nil
}
