package geometry

import "github.com/chewxy/math32"

type meshBuilder struct {
	positions []float32
	normals   []float32
	uvs       []float32
	indices   []uint32
}

func (b *meshBuilder) vertex(pos, normal [3]float32, u, v float32) {
	b.positions = append(b.positions, pos[0], pos[1], pos[2])
	b.normals = append(b.normals, normal[0], normal[1], normal[2])
	b.uvs = append(b.uvs, u, v)
}

func (b *meshBuilder) quad(a, bb, c, d uint32) {
	b.indices = append(b.indices, a, bb, d, bb, c, d)
}

func (b *meshBuilder) count() uint32 {
	return uint32(len(b.positions) / 3)
}

func (b *meshBuilder) build(name string) Geometry {
	return NewBuffer(name, KindMesh, map[string]*Attribute{
		AttributePosition: NewAttribute(b.positions, 3),
		AttributeNormal:   NewAttribute(b.normals, 3),
		AttributeUV:       NewAttribute(b.uvs, 2),
	}, b.indices)
}

// plane emits one subdivided box face. u, v and w are axis indices; w is the face normal axis.
func (b *meshBuilder) plane(u, v, w int, udir, vdir, width, height, depth float32, gridX, gridY int) {
	segW, segH := width/float32(gridX), height/float32(gridY)
	halfW, halfH, halfD := width/2, height/2, depth/2
	start := b.count()
	var normal [3]float32
	if depth > 0 {
		normal[w] = 1
	} else {
		normal[w] = -1
	}

	for iy := 0; iy <= gridY; iy++ {
		y := float32(iy)*segH - halfH
		for ix := 0; ix <= gridX; ix++ {
			x := float32(ix)*segW - halfW
			var pos [3]float32
			pos[u] = x * udir
			pos[v] = y * vdir
			pos[w] = halfD
			b.vertex(pos, normal, float32(ix)/float32(gridX), 1-float32(iy)/float32(gridY))
		}
	}

	row := uint32(gridX + 1)
	for iy := 0; iy < gridY; iy++ {
		for ix := 0; ix < gridX; ix++ {
			a := start + uint32(ix) + row*uint32(iy)
			bb := start + uint32(ix) + row*uint32(iy+1)
			c := start + uint32(ix+1) + row*uint32(iy+1)
			d := start + uint32(ix+1) + row*uint32(iy)
			b.quad(a, bb, c, d)
		}
	}
}

// NewBox creates a box centered on the origin with every face subdivided.
// Segment counts below 1 are raised to 1.
//
// Parameters:
//   - width, height, depth: extents along x, y and z
//   - widthSegments, heightSegments, depthSegments: subdivisions per axis
//
// Returns:
//   - Geometry: the box mesh
func NewBox(width, height, depth float32, widthSegments, heightSegments, depthSegments int) Geometry {
	ws, hs, ds := max(widthSegments, 1), max(heightSegments, 1), max(depthSegments, 1)
	const x, y, z = 0, 1, 2

	b := &meshBuilder{}
	b.plane(z, y, x, -1, -1, depth, height, width, ds, hs)
	b.plane(z, y, x, 1, -1, depth, height, -width, ds, hs)
	b.plane(x, z, y, 1, 1, width, depth, height, ws, ds)
	b.plane(x, z, y, 1, -1, width, depth, -height, ws, ds)
	b.plane(x, y, z, 1, -1, width, height, depth, ws, hs)
	b.plane(x, y, z, -1, -1, width, height, -depth, ws, hs)
	return b.build("box")
}

// NewPlane creates a plane in the XY plane facing +Z.
//
// Parameters:
//   - width, height: extents along x and y
//   - widthSegments, heightSegments: subdivisions
//
// Returns:
//   - Geometry: the plane mesh
func NewPlane(width, height float32, widthSegments, heightSegments int) Geometry {
	gx, gy := max(widthSegments, 1), max(heightSegments, 1)
	segW, segH := width/float32(gx), height/float32(gy)

	b := &meshBuilder{}
	for iy := 0; iy <= gy; iy++ {
		py := float32(iy)*segH - height/2
		for ix := 0; ix <= gx; ix++ {
			px := float32(ix)*segW - width/2
			b.vertex([3]float32{px, -py, 0}, [3]float32{0, 0, 1}, float32(ix)/float32(gx), 1-float32(iy)/float32(gy))
		}
	}
	row := uint32(gx + 1)
	for iy := 0; iy < gy; iy++ {
		for ix := 0; ix < gx; ix++ {
			b.quad(uint32(ix)+row*uint32(iy), uint32(ix)+row*uint32(iy+1), uint32(ix+1)+row*uint32(iy+1), uint32(ix+1)+row*uint32(iy))
		}
	}
	return b.build("plane")
}

// NewSphere creates a UV sphere. The poles are single rows of degenerate-free triangles.
//
// Parameters:
//   - radius: the sphere radius
//   - widthSegments: horizontal segments, at least 3
//   - heightSegments: vertical segments, at least 2
//
// Returns:
//   - Geometry: the sphere mesh
func NewSphere(radius float32, widthSegments, heightSegments int) Geometry {
	ws, hs := max(widthSegments, 3), max(heightSegments, 2)

	b := &meshBuilder{}
	for iy := 0; iy <= hs; iy++ {
		v := float32(iy) / float32(hs)
		sinT, cosT := math32.Sincos(v * math32.Pi)
		for ix := 0; ix <= ws; ix++ {
			u := float32(ix) / float32(ws)
			sinP, cosP := math32.Sincos(u * 2 * math32.Pi)
			n := [3]float32{-cosP * sinT, cosT, sinP * sinT}
			b.vertex([3]float32{n[0] * radius, n[1] * radius, n[2] * radius}, n, u, 1-v)
		}
	}

	row := uint32(ws + 1)
	for iy := 0; iy < hs; iy++ {
		for ix := 0; ix < ws; ix++ {
			a := uint32(iy)*row + uint32(ix+1)
			bb := uint32(iy)*row + uint32(ix)
			c := uint32(iy+1)*row + uint32(ix)
			d := uint32(iy+1)*row + uint32(ix+1)
			if iy != 0 {
				b.indices = append(b.indices, a, bb, d)
			}
			if iy != hs-1 {
				b.indices = append(b.indices, bb, c, d)
			}
		}
	}
	return b.build("sphere")
}

// NewTorus creates a torus around the Z axis.
//
// Parameters:
//   - radius: distance from the center to the middle of the tube
//   - tube: the tube radius
//   - radialSegments: segments around the tube, at least 3
//   - tubularSegments: segments around the ring, at least 3
//
// Returns:
//   - Geometry: the torus mesh
func NewTorus(radius, tube float32, radialSegments, tubularSegments int) Geometry {
	rs, ts := max(radialSegments, 3), max(tubularSegments, 3)

	b := &meshBuilder{}
	for j := 0; j <= rs; j++ {
		sinV, cosV := math32.Sincos(float32(j) / float32(rs) * 2 * math32.Pi)
		for i := 0; i <= ts; i++ {
			sinU, cosU := math32.Sincos(float32(i) / float32(ts) * 2 * math32.Pi)
			pos := [3]float32{(radius + tube*cosV) * cosU, (radius + tube*cosV) * sinU, tube * sinV}
			n := [3]float32{cosV * cosU, cosV * sinU, sinV}
			b.vertex(pos, n, float32(i)/float32(ts), float32(j)/float32(rs))
		}
	}

	row := uint32(ts + 1)
	for j := 1; j <= rs; j++ {
		for i := 1; i <= ts; i++ {
			a := row*uint32(j) + uint32(i-1)
			bb := row*uint32(j-1) + uint32(i-1)
			c := row*uint32(j-1) + uint32(i)
			d := row*uint32(j) + uint32(i)
			b.quad(a, bb, c, d)
		}
	}
	return b.build("torus")
}

// NewAxes creates three colored line segments of the given length along +X (red), +Y (green) and +Z (blue).
//
// Parameters:
//   - size: the length of each axis
//
// Returns:
//   - Geometry: the axes line geometry
func NewAxes(size float32) Geometry {
	positions := []float32{
		0, 0, 0, size, 0, 0,
		0, 0, 0, 0, size, 0,
		0, 0, 0, 0, 0, size,
	}
	colors := []float32{
		1, 0, 0, 1, 0.6, 0,
		0, 1, 0, 0.6, 1, 0,
		0, 0, 1, 0, 0.6, 1,
	}
	return NewLines(positions, colors)
}
