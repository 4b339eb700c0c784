// Package overlay renders control state onto camera frames for the
// debug video stream: window outlines, virtual objects, the radial menu,
// hand landmarks, and status text.
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/scene"
	"github.com/ayusman/mudra/internal/windowctl"
)

// Colors, matching the orange/white/black scheme of the original overlay.
var (
	colorIdle    = color.RGBA{R: 100, G: 100, B: 100}
	colorHovered = color.RGBA{R: 255, G: 165, B: 0}
	colorGrabbed = color.RGBA{R: 255, G: 255, B: 0}
	colorMenu    = color.RGBA{R: 255, G: 255, B: 255}
	colorMenuBG  = color.RGBA{R: 0, G: 0, B: 0}
	colorGood    = color.RGBA{R: 0, G: 255, B: 0}
	colorBad     = color.RGBA{R: 255, G: 0, B: 0}
	colorSwipe   = color.RGBA{R: 0, G: 255, B: 255}
	colorBone    = color.RGBA{R: 0, G: 0, B: 255}
)

// MaxWindowOutlines caps how many window outlines are drawn per frame.
const MaxWindowOutlines = 10

// handConnections are the MediaPipe hand skeleton edges.
var handConnections = [][2]int{
	{detector.Wrist, detector.ThumbCMC}, {detector.ThumbCMC, detector.ThumbMCP},
	{detector.ThumbMCP, detector.ThumbIP}, {detector.ThumbIP, detector.ThumbTip},
	{detector.Wrist, detector.IndexMCP}, {detector.IndexMCP, detector.IndexPIP},
	{detector.IndexPIP, detector.IndexDIP}, {detector.IndexDIP, detector.IndexTip},
	{detector.IndexMCP, detector.MiddleMCP}, {detector.MiddleMCP, detector.MiddlePIP},
	{detector.MiddlePIP, detector.MiddleDIP}, {detector.MiddleDIP, detector.MiddleTip},
	{detector.MiddleMCP, detector.RingMCP}, {detector.RingMCP, detector.RingPIP},
	{detector.RingPIP, detector.RingDIP}, {detector.RingDIP, detector.RingTip},
	{detector.RingMCP, detector.PinkyMCP}, {detector.Wrist, detector.PinkyMCP},
	{detector.PinkyMCP, detector.PinkyPIP}, {detector.PinkyPIP, detector.PinkyDIP},
	{detector.PinkyDIP, detector.PinkyTip},
}

// Overlay draws feedback onto frames of a fixed size.
type Overlay struct {
	frameWidth  int
	frameHeight int
}

// New creates an Overlay for frames of the given size.
func New(frameWidth, frameHeight int) *Overlay {
	return &Overlay{
		frameWidth:  frameWidth,
		frameHeight: frameHeight,
	}
}

// DrawObject draws a virtual object as a filled panel with a state-colored
// border, a glow when hovered or grabbed, and a name label above it.
func (o *Overlay) DrawObject(frame *gocv.Mat, obj *scene.Object) {
	xPixel := int(obj.X * float64(o.frameWidth))
	yPixel := int(obj.Y * float64(o.frameHeight))
	sizePixel := int(obj.Size * float64(minInt(o.frameWidth, o.frameHeight)))

	var c color.RGBA
	var thickness int
	switch obj.State {
	case scene.StateGrabbed:
		c = colorGrabbed
		thickness = 4
	case scene.StateHovered:
		c = colorHovered
		thickness = 3
	case scene.StateSelected:
		c = colorMenu
		thickness = 2
	default:
		c = colorIdle
		thickness = 1
	}

	half := sizePixel / 2
	rect := image.Rect(xPixel-half, yPixel-half, xPixel+half, yPixel+half)
	gocv.Rectangle(frame, rect, c, -1)
	gocv.Rectangle(frame, rect, colorMenu, thickness)

	if obj.HoverGlow {
		o.drawGlow(frame, xPixel, yPixel, sizePixel, c)
	}

	label := fmt.Sprintf("%s (%s)", obj.Name, obj.Type)
	labelSize := gocv.GetTextSize(label, gocv.FontHersheySimplex, 0.5, 1)
	labelX := xPixel - labelSize.X/2
	labelY := yPixel - half - 10

	gocv.Rectangle(frame,
		image.Rect(labelX-5, labelY-labelSize.Y-5, labelX+labelSize.X+5, labelY+5),
		colorMenuBG, -1)
	gocv.PutText(frame, label, image.Pt(labelX, labelY),
		gocv.FontHersheySimplex, 0.5, colorMenu, 1)
}

// drawGlow layers translucent circles around a point for a glow effect.
func (o *Overlay) drawGlow(frame *gocv.Mat, x, y, size int, c color.RGBA) {
	for i := 3; i > 0; i-- {
		radius := size/2 + i*5
		alpha := 0.3 / float64(i)
		layer := frame.Clone()
		gocv.Circle(&layer, image.Pt(x, y), radius, c, -1)
		gocv.AddWeighted(layer, alpha, *frame, 1-alpha, 0, frame)
		layer.Close()
	}
}

// DrawWindows draws outlines for the given windows, marking the grabbed
// and hovered ones, up to MaxWindowOutlines.
func (o *Overlay) DrawWindows(frame *gocv.Mat, windows []windowctl.WindowInfo, grabbedID, hoveredID string, screenW, screenH int) {
	for i, win := range windows {
		if i >= MaxWindowOutlines {
			break
		}
		grabbed := win.ID == grabbedID
		hovered := win.ID == hoveredID && !grabbed
		o.DrawWindowOutline(frame, win, grabbed, hovered, screenW, screenH)
	}
}

// DrawWindowOutline draws one real window as a rectangle in frame space
// with its title above the top-left corner.
func (o *Overlay) DrawWindowOutline(frame *gocv.Mat, win windowctl.WindowInfo, grabbed, hovered bool, screenW, screenH int) {
	if screenW <= 0 || screenH <= 0 {
		return
	}

	scaleX := float64(o.frameWidth) / float64(screenW)
	scaleY := float64(o.frameHeight) / float64(screenH)

	left := int(float64(win.Rect.X) * scaleX)
	top := int(float64(win.Rect.Y) * scaleY)
	right := int(float64(win.Rect.X+win.Rect.Width) * scaleX)
	bottom := int(float64(win.Rect.Y+win.Rect.Height) * scaleY)

	var c color.RGBA
	var thickness int
	switch {
	case grabbed:
		c = colorGrabbed
		thickness = 4
	case hovered:
		c = colorHovered
		thickness = 3
	default:
		c = colorIdle
		thickness = 1
	}

	gocv.Rectangle(frame, image.Rect(left, top, right, bottom), c, thickness)

	title := truncate(win.Title, 30)
	labelSize := gocv.GetTextSize(title, gocv.FontHersheySimplex, 0.4, 1)
	labelX := left + 5
	labelY := top - 5
	if top <= 20 {
		labelY = top + 20
	}

	gocv.Rectangle(frame,
		image.Rect(labelX-2, labelY-labelSize.Y-2, labelX+labelSize.X+2, labelY+2),
		colorMenuBG, -1)
	gocv.PutText(frame, title, image.Pt(labelX, labelY),
		gocv.FontHersheySimplex, 0.4, c, 1)
}

// DrawRadialMenu draws a radial menu centered at the given frame point.
// selected is the highlighted option index, or -1 for none.
func (o *Overlay) DrawRadialMenu(frame *gocv.Mat, centerX, centerY int, options []string, selected int) {
	if len(options) == 0 {
		return
	}

	const menuRadius = 80
	const optionRadius = 30

	center := image.Pt(centerX, centerY)
	gocv.Circle(frame, center, menuRadius+20, colorMenuBG, -1)
	gocv.Circle(frame, center, menuRadius+20, colorMenu, 2)

	angleStep := 2 * math.Pi / float64(len(options))

	for i, option := range options {
		// Option 0 sits at the top, the rest run clockwise
		angle := float64(i)*angleStep - math.Pi/2
		optionX := centerX + int(menuRadius*math.Cos(angle))
		optionY := centerY + int(menuRadius*math.Sin(angle))

		c := colorMenu
		thickness := 1
		if i == selected {
			c = colorHovered
			thickness = 3
		}

		pt := image.Pt(optionX, optionY)
		gocv.Circle(frame, pt, optionRadius, colorMenuBG, -1)
		gocv.Circle(frame, pt, optionRadius, c, thickness)

		label := optionBadge(option, i)
		labelSize := gocv.GetTextSize(label, gocv.FontHersheySimplex, 0.6, 2)
		gocv.PutText(frame, label, image.Pt(optionX-labelSize.X/2, optionY+labelSize.Y/2),
			gocv.FontHersheySimplex, 0.6, c, 2)
	}
}

// DrawIntent draws the current intent description with a dark backdrop.
func (o *Overlay) DrawIntent(frame *gocv.Mat, text string, x, y int) {
	textSize := gocv.GetTextSize(text, gocv.FontHersheySimplex, 0.7, 2)
	gocv.Rectangle(frame,
		image.Rect(x-10, y-textSize.Y-10, x+textSize.X+10, y+10),
		colorMenuBG, -1)
	gocv.PutText(frame, text, image.Pt(x, y),
		gocv.FontHersheySimplex, 0.7, colorHovered, 2)
}

// DrawHandTrail draws the recent hand path with fading color.
func (o *Overlay) DrawHandTrail(frame *gocv.Mat, points []image.Point) {
	if len(points) < 2 {
		return
	}

	for i := 1; i < len(points); i++ {
		alpha := float64(i) / float64(len(points))
		c := color.RGBA{
			R: uint8(float64(colorHovered.R) * alpha),
			G: uint8(float64(colorHovered.G) * alpha),
			B: uint8(float64(colorHovered.B) * alpha),
		}
		gocv.Line(frame, points[i-1], points[i], c, 2)
	}
}

// DrawLandmarks draws the hand skeleton: green joints over blue bones.
func (o *Overlay) DrawLandmarks(frame *gocv.Mat, hand *detector.HandLandmarks) {
	if hand == nil {
		return
	}

	px := func(p detector.Point3D) image.Point {
		return image.Pt(int(p.X*float64(o.frameWidth)), int(p.Y*float64(o.frameHeight)))
	}

	for _, conn := range handConnections {
		gocv.Line(frame, px(hand.Points[conn[0]]), px(hand.Points[conn[1]]), colorBone, 2)
	}
	for _, p := range hand.Points {
		gocv.Circle(frame, px(p), 2, colorGood, 2)
	}
}

// DrawStatus draws the mode banner and per-frame gesture readouts down the
// left edge. In object mode the banner starts lower to clear the intent text.
func (o *Overlay) DrawStatus(frame *gocv.Mat, objectMode bool, levels gesture.Levels, swipe string) {
	statusY := 30
	mode := "CURSOR"
	if objectMode {
		statusY = 60
		mode = "OBJECT"
	}

	gocv.PutText(frame, "Mode: "+mode, image.Pt(10, statusY),
		gocv.FontHersheySimplex, 0.6, colorGrabbed, 2)

	statusY += 30
	gocv.PutText(frame, fmt.Sprintf("Fist: %v", levels.Fist), image.Pt(10, statusY),
		gocv.FontHersheySimplex, 0.5, boolColor(levels.Fist), 1)

	statusY += 25
	gocv.PutText(frame, fmt.Sprintf("Open: %v", levels.OpenPalm), image.Pt(10, statusY),
		gocv.FontHersheySimplex, 0.5, boolColor(levels.OpenPalm), 1)

	if swipe != "" {
		statusY += 25
		gocv.PutText(frame, "Swipe: "+swipe, image.Pt(10, statusY),
			gocv.FontHersheySimplex, 0.5, colorSwipe, 2)
	}
}

// DrawGrabbedTitle shows which window is being dragged.
func (o *Overlay) DrawGrabbedTitle(frame *gocv.Mat, title string) {
	gocv.PutText(frame, "Grabbed: "+truncate(title, 40), image.Pt(10, 90),
		gocv.FontHersheySimplex, 0.5, colorGrabbed, 2)
}

// DrawNoHand draws the no-hand banner.
func (o *Overlay) DrawNoHand(frame *gocv.Mat) {
	gocv.PutText(frame, "No hand detected", image.Pt(10, 30),
		gocv.FontHersheySimplex, 1, colorBad, 2)
}

// optionBadge returns the single-character badge for a menu option:
// its first letter, or its number when the label is empty.
func optionBadge(option string, index int) string {
	for _, r := range option {
		return strings.ToUpper(string(r))
	}
	return strconv.Itoa(index + 1)
}

func boolColor(b bool) color.RGBA {
	if b {
		return colorGood
	}
	return colorBad
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
