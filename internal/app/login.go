package app

import (
	"context"
	"image/color"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"

	"github.com/bakerboysgame/notropolis-client/internal/api"
)

type authResult struct {
	resp *api.LoginResponse
	err  error
}

// loginScreen is the sign-in / register form. The HTTP calls run off the
// update loop; the result comes back through a channel drained each frame,
// so the form stays responsive and inputs stay disabled while busy.
type loginScreen struct {
	app *App

	registering bool
	user        *textBox
	pass        *textBox
	company     *textBox
	boxes       []*textBox

	submitBtn button
	modeBtn   button

	msg      string
	msgIsErr bool
	busy     bool
	results  chan authResult
}

func newLoginScreen(a *App) *loginScreen {
	s := &loginScreen{
		app:     a,
		user:    newTextBox("Username", false),
		pass:    newTextBox("Password", true),
		company: newTextBox("Company name", false),
		results: make(chan authResult, 1),
	}
	s.user.focused = true
	s.boxes = []*textBox{s.user, s.pass}
	return s
}

func (s *loginScreen) layout() {
	cx := s.app.w/2 - 140
	y := s.app.h/2 - 110
	for _, b := range s.boxes {
		b.X, b.Y = cx, y
		y += 58
	}
	s.submitBtn = button{Label: "Sign in", X: cx, Y: y + 8, W: 280, H: 36, Disabled: s.busy}
	if s.registering {
		s.submitBtn.Label = "Create account"
	}
	s.modeBtn = button{Label: "Need an account?", X: cx, Y: y + 54, W: 280, H: 28, Disabled: s.busy}
	if s.registering {
		s.modeBtn.Label = "Back to sign in"
	}
}

func (s *loginScreen) setMode(registering bool) {
	s.registering = registering
	if registering {
		s.boxes = []*textBox{s.user, s.pass, s.company}
	} else {
		s.boxes = []*textBox{s.user, s.pass}
	}
	s.focusIndex(0)
}

func (s *loginScreen) focusIndex(i int) {
	for j, b := range s.boxes {
		b.focused = j == i
	}
}

func (s *loginScreen) focusedIndex() int {
	for j, b := range s.boxes {
		if b.focused {
			return j
		}
	}
	return 0
}

func (s *loginScreen) update() error {
	s.layout()

	select {
	case r := <-s.results:
		s.busy = false
		if r.err != nil {
			s.msg = api.UserMessage(r.err)
			s.msgIsErr = true
		} else {
			s.app.companyID = r.resp.CompanyID
			s.app.username = r.resp.Username
			s.app.showLoading()
			return nil
		}
	default:
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		switch {
		case s.submitBtn.hit(mx, my):
			s.submit()
		case s.modeBtn.hit(mx, my):
			s.setMode(!s.registering)
		default:
			for j, b := range s.boxes {
				if b.contains(mx, my) {
					s.focusIndex(j)
				}
			}
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		n := len(s.boxes)
		if ebiten.IsKeyPressed(ebiten.KeyShift) {
			s.focusIndex((s.focusedIndex() + n - 1) % n)
		} else {
			s.focusIndex((s.focusedIndex() + 1) % n)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		s.submit()
	}

	if !s.busy {
		for _, b := range s.boxes {
			b.update()
		}
	}
	return nil
}

func (s *loginScreen) submit() {
	if s.busy {
		return
	}
	user := strings.TrimSpace(s.user.Value)
	pass := s.pass.Value
	if user == "" || pass == "" {
		s.msg = "enter a username and password"
		s.msgIsErr = true
		return
	}
	if s.registering && strings.TrimSpace(s.company.Value) == "" {
		s.msg = "enter a company name"
		s.msgIsErr = true
		return
	}

	s.busy = true
	s.msg = "contacting server..."
	s.msgIsErr = false
	registering := s.registering
	company := strings.TrimSpace(s.company.Value)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if registering {
			if err := s.app.api.Register(ctx, user, pass, company); err != nil {
				s.results <- authResult{err: err}
				return
			}
		}
		resp, err := s.app.api.Login(ctx, user, pass)
		s.results <- authResult{resp: resp, err: err}
	}()
}

func (s *loginScreen) draw(dst *ebiten.Image) {
	dst.Fill(color.RGBA{R: 14, G: 17, B: 22, A: 255})

	title := "NOTROPOLIS"
	tw := text.BoundString(uiFace, title).Dx()
	text.Draw(dst, title, uiFace, (s.app.w-tw)/2, s.app.h/2-160, textColour)

	for _, b := range s.boxes {
		b.draw(dst)
	}
	s.submitBtn.draw(dst)
	s.modeBtn.draw(dst)

	if s.msg != "" {
		col := mutedColour
		if s.msgIsErr {
			col = errColour
		}
		mw := text.BoundString(uiFace, s.msg).Dx()
		text.Draw(dst, s.msg, uiFace, (s.app.w-mw)/2, s.modeBtn.Y+s.modeBtn.H+30, col)
	}
}
