package main

import (
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"github.com/milk9111/rebind/config"
	"github.com/milk9111/rebind/input"
)

const slotsPerRow = 2

// RebindMenu is the pause menu listing every rebindable control of the
// current scheme. Clicking a slot starts an interactive rebind.
type RebindMenu struct {
	ui     *ebitenui.UI
	game   *Game
	scheme input.Scheme

	schemeBtn *widget.Button
	status    *widget.Text
	rows      []*rebindRowUI
	// buttons are disabled while a rebind is listening.
	buttons []*widget.Button
}

type rebindRowUI struct {
	row   config.RebindRow
	slots [slotsPerRow]*widget.Button
}

var (
	white    = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	grey     = color.NRGBA{R: 0x90, G: 0x90, B: 0x90, A: 0xff}
	btnImage = &widget.ButtonImage{
		Idle:     imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255}),
		Hover:    imageui.NewNineSliceColor(color.NRGBA{R: 0x44, G: 0x44, B: 0x55, A: 255}),
		Pressed:  imageui.NewNineSliceColor(color.NRGBA{R: 0x22, G: 0x22, B: 0x22, A: 255}),
		Disabled: imageui.NewNineSliceColor(color.NRGBA{R: 0x26, G: 0x26, B: 0x26, A: 255}),
	}
	btnTextColor = &widget.ButtonTextColor{Idle: white, Disabled: grey}
)

func NewRebindMenu(g *Game) *RebindMenu {
	m := &RebindMenu{game: g, scheme: input.SchemeKeyboard}

	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 200})

	// Create a text.Face from the built-in basic font so we can show labels
	goFace := ebtext.NewGoXFace(basicfont.Face7x13)
	var face ebtext.Face = goFace

	center := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})

	title := widget.NewText(
		widget.TextOpts.Text("Controls", &face, white),
		widget.TextOpts.WidgetOpts(center),
	)

	m.schemeBtn = m.newButton(&face, "", 200, func() {
		if m.scheme == input.SchemeKeyboard {
			m.scheme = input.SchemeGamepad
		} else {
			m.scheme = input.SchemeKeyboard
		}
		m.Refresh()
	}, center)

	grid := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewGridLayout(
			widget.GridLayoutOpts.Columns(1+slotsPerRow),
			widget.GridLayoutOpts.Spacing(12, 6),
		)),
		widget.ContainerOpts.WidgetOpts(center),
	)
	for _, row := range g.actions.RebindRows {
		r := &rebindRowUI{row: row}
		grid.AddChild(widget.NewText(
			widget.TextOpts.Text(row.Label, &face, white),
			widget.TextOpts.WidgetOpts(widget.WidgetOpts.MinSize(120, 24)),
		))
		for col := range r.slots {
			r.slots[col] = m.newButton(&face, "", 160, func() {
				m.startRebind(r, col)
			})
			grid.AddChild(r.slots[col])
		}
		m.rows = append(m.rows, r)
	}

	m.status = widget.NewText(
		widget.TextOpts.Text("", &face, grey),
		widget.TextOpts.WidgetOpts(center),
	)

	actions := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(10),
		)),
		widget.ContainerOpts.WidgetOpts(center),
	)
	actions.AddChild(m.newButton(&face, "Save", 90, g.SaveBindings))
	actions.AddChild(m.newButton(&face, "Load", 90, g.LoadBindings))
	actions.AddChild(m.newButton(&face, "Reset", 90, g.ResetBindings))
	actions.AddChild(m.newButton(&face, "Resume", 90, func() { g.SetPaused(false) }))

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 20, Bottom: 20, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(baseWidth/2, baseHeight/2),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionCenter}),
		),
	)
	panel.AddChild(title)
	panel.AddChild(m.schemeBtn)
	panel.AddChild(grid)
	panel.AddChild(m.status)
	panel.AddChild(actions)

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)

	m.ui = &ebitenui.UI{Container: root}
	m.Refresh()
	return m
}

func (m *RebindMenu) newButton(face *ebtext.Face, label string, width int, onClick func(), opts ...widget.WidgetOpt) *widget.Button {
	btn := widget.NewButton(
		widget.ButtonOpts.Image(btnImage),
		widget.ButtonOpts.Text(label, face, btnTextColor),
		widget.ButtonOpts.WidgetOpts(append([]widget.WidgetOpt{widget.WidgetOpts.MinSize(width, 24)}, opts...)...),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			onClick()
		}),
	)
	m.buttons = append(m.buttons, btn)
	return btn
}

func (m *RebindMenu) Update() {
	m.ui.Update()
}

func (m *RebindMenu) Draw(screen *ebiten.Image) {
	m.ui.Draw(screen)
}

func (m *RebindMenu) SetStatus(msg string) {
	m.status.Label = msg
}

// Refresh rewrites every label from the registry and re-enables the menu
// once no rebind is listening.
func (m *RebindMenu) Refresh() {
	reg := m.game.registry
	setLabel(m.schemeBtn, "Scheme: "+schemeLabel(m.scheme))

	for _, r := range m.rows {
		indices := m.indices(r.row)
		for col, btn := range r.slots {
			if col >= len(indices) {
				setLabel(btn, "-")
				continue
			}
			setLabel(btn, reg.BindingName(r.row.Action, indices[col]))
		}
	}

	busy := m.game.rebinder.Rebinding()
	for _, btn := range m.buttons {
		btn.GetWidget().Disabled = busy
	}
	for _, r := range m.rows {
		for col := len(m.indices(r.row)); col < slotsPerRow; col++ {
			r.slots[col].GetWidget().Disabled = true
		}
	}
}

func (m *RebindMenu) indices(row config.RebindRow) []int {
	if m.scheme == input.SchemeGamepad {
		return row.Gamepad
	}
	return row.Keyboard
}

func (m *RebindMenu) startRebind(r *rebindRowUI, col int) {
	indices := m.indices(r.row)
	if col >= len(indices) {
		return
	}
	if err := m.game.RequestRebind(r.row.Action, indices[col], m.scheme); err != nil {
		m.game.log.Warn().Err(err).Str("action", r.row.Action).Msg("cannot start rebind")
		m.SetStatus("Cannot rebind right now")
		return
	}
	m.Refresh()
	setLabel(r.slots[col], "...")

	device := "a key"
	if m.scheme == input.SchemeGamepad {
		device = "a button"
	}
	msg := fmt.Sprintf("Press %s for %s", device, r.row.Label)
	if cancel := m.game.actions.Cancel; cancel.Action != "" {
		msg += fmt.Sprintf(", %s to cancel", m.game.registry.BindingName(cancel.Action, cancel.Index))
	}
	m.SetStatus(msg)
}

func setLabel(btn *widget.Button, label string) {
	if text := btn.Text(); text != nil {
		text.Label = label
	}
}

func schemeLabel(s input.Scheme) string {
	if s == input.SchemeGamepad {
		return "Gamepad"
	}
	return "Keyboard & Mouse"
}
