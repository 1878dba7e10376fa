package entity

import (
	"github.com/Carmen-Shannon/oxy-lessons/common"
	"github.com/Carmen-Shannon/oxy-lessons/engine/geometry"
	"github.com/Carmen-Shannon/oxy-lessons/engine/material"
	"github.com/go-gl/mathgl/mgl32"
)

// EntityBuilderOption is a functional option for configuring an Entity during construction.
type EntityBuilderOption func(*entity)

// WithName sets the descriptive name of the Entity.
//
// Parameters:
//   - name: the name
//
// Returns:
//   - EntityBuilderOption: functional option to set the name
func WithName(name string) EntityBuilderOption {
	return func(e *entity) {
		e.name = name
	}
}

// WithPosition sets the initial local position of the Entity.
//
// Parameters:
//   - x, y, z: position components
//
// Returns:
//   - EntityBuilderOption: functional option to set the position
func WithPosition(x, y, z float32) EntityBuilderOption {
	return func(e *entity) {
		e.position = mgl32.Vec3{x, y, z}
	}
}

// WithRotation sets the initial Euler angles of the Entity in radians.
//
// Parameters:
//   - rx, ry, rz: rotation around each axis
//
// Returns:
//   - EntityBuilderOption: functional option to set the rotation
func WithRotation(rx, ry, rz float32) EntityBuilderOption {
	return func(e *entity) {
		e.rotation = mgl32.Vec3{rx, ry, rz}
	}
}

// WithRotationOrder sets the Euler application order. Invalid orders are ignored.
//
// Parameters:
//   - order: the rotation order
//
// Returns:
//   - EntityBuilderOption: functional option to set the rotation order
func WithRotationOrder(order common.RotationOrder) EntityBuilderOption {
	return func(e *entity) {
		if order.Valid() {
			e.order = order
		}
	}
}

// WithScale sets the initial scale of the Entity.
//
// Parameters:
//   - sx, sy, sz: scale factors
//
// Returns:
//   - EntityBuilderOption: functional option to set the scale
func WithScale(sx, sy, sz float32) EntityBuilderOption {
	return func(e *entity) {
		e.scale = mgl32.Vec3{sx, sy, sz}
	}
}

// WithVisible sets the initial visibility of the Entity.
func WithVisible(visible bool) EntityBuilderOption {
	return func(e *entity) {
		e.visible = visible
	}
}

// WithGeometry sets the shape of the Entity.
func WithGeometry(g geometry.Geometry) EntityBuilderOption {
	return func(e *entity) {
		e.geom = g
	}
}

// WithMaterial sets the surface of the Entity.
func WithMaterial(m material.Material) EntityBuilderOption {
	return func(e *entity) {
		e.mat = m
	}
}
