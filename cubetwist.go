// Package cubetwist models an interactive 3x3x3 puzzle cube as 27 individually
// positioned cubelets that can be twisted one face at a time.
//
// # Model
//
// Faces are never tracked as a permutation. Every time a face is needed it is
// derived from the live position of the cubelets, so after any number of
// twists the cubelets on top are simply the ones whose position is above the
// middle layer:
//
//	a := cubetwist.NewAssembly()
//	top := a.Face(cubetwist.Top)
//	fmt.Println(top.Len()) // 9 while the cube is at rest
//
// # Twisting
//
// A FaceGroup snapshots its members when it is created. While the user drags,
// feed it fractional quarter turns; on release call Complete and then Update
// once per frame until it reports that it has settled on a quarter turn:
//
//	g := a.Face(cubetwist.Right)
//	g.Rotate(0.37)
//	g.Complete()
//	for g.Update(1.0 / 60) {
//	    // render frame
//	}
//
// A group can also animate a whole turn on its own, which is how moves from a
// physical cube are mirrored:
//
//	g := a.Face(cubetwist.Front)
//	g.Turn(g.QuarterTurnsFor(true))
//
// # Idle animation
//
// With AutoRotate set, AdvanceIdle spins the whole assembly slowly about all
// three axes. The idle spin is independent of any face rotation.
package cubetwist
