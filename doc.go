// Package automation models automation curves: values that change over time,
// such as a synthesizer parameter over the length of a clip.
//
// # Curves
//
// An [Automation] is a sequence of keys over the time domain [0, Length],
// kept in strictly increasing time order. Each key holds a value clamped to
// the curve's [Range] and owns the [Easing] of the segment that starts at it:
// [Linear], [Hold] or [Cubic]. Cubic easings are Bézier segments whose tangent
// handles are kept within the segment's time span, which guarantees that the
// curve stays a function of time. [Automation.ValueAt] evaluates the curve.
//
// Keys are identified by a [KeyID] that stays valid while other keys are
// inserted or removed.
//
// # Curve space and view space
//
// Curve space has time on the X axis and value on the Y axis. A [View] maps a
// window of curve space onto a viewport, with Y pointing down. Every
// conversion between the two spaces goes through the view's [Affine], so
// drawing and hit-testing agree. [ValueGrid] lays out value-axis grid lines
// for a view.
//
// # Editing
//
// [Editor] is the interface a front end talks to. It takes input in view
// coordinates, applies edits as undoable [Command]s, maintains a [Selection]
// and reports every change as an [Event]. Freehand input is captured in a
// [Stroke], which merges samples so that drawing back over a stretch of time
// replaces it. [Recorder] does the same for values recorded during playback.
//
// # Geometry
//
// The package carries the small amount of 2D geometry the model needs:
// [Point], [Vec2], [Size], [Rect], [Affine], [Line], [CubicBez] and
// [BezPath], along with root finders ([SolveCubic], [SolveITP]) used to
// evaluate cubic segments at a given time. Paths can be written as SVG path
// data with [WriteSVG].
//
// # Persistence
//
// Curves are stored as YAML with [Automation.Save] and [Load]. The view
// window is presentational state and is not stored.
package automation
