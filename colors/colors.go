package colors

// package colors contains functions to quickly and easily generate gltfext.Color instances by name (i.e. "White()", "Gray()", etc).

import "github.com/solarlune/gltfext"

// White generates a gltfext.Color instance of the provided name.
func White() gltfext.Color {
	return gltfext.NewColor(1, 1, 1, 1)
}

// Black generates a gltfext.Color instance of the provided name.
func Black() gltfext.Color {
	return gltfext.NewColor(0, 0, 0, 1)
}

// LightGray generates a gltfext.Color instance of the provided name.
func LightGray() gltfext.Color {
	return gltfext.NewColor(0.8, 0.8, 0.8, 1)
}

// DarkGray generates a gltfext.Color instance of the provided name.
func DarkGray() gltfext.Color {
	return gltfext.NewColor(0.2, 0.2, 0.2, 1)
}

// Green generates a gltfext.Color instance of the provided name.
func Green() gltfext.Color {
	return gltfext.NewColor(0, 1, 0, 1)
}

// Yellow generates a gltfext.Color instance of the provided name.
func Yellow() gltfext.Color {
	return gltfext.NewColor(1, 1, 0, 1)
}

// Red generates a gltfext.Color instance of the provided name.
func Red() gltfext.Color {
	return gltfext.NewColor(1, 0, 0, 1)
}
