package app

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"

	"github.com/bakerboysgame/notropolis-client/internal/api"
	"github.com/bakerboysgame/notropolis-client/internal/config"
)

type screenID int

const (
	screenLogin screenID = iota
	screenLoading
	screenCity
	screenBuilder
)

// App is the top-level ebiten game. It owns the shared services and hands
// each frame to whichever screen is active; screens request transitions by
// calling back into it.
type App struct {
	cfg *config.Config
	log *logrus.Logger
	api *api.Client

	w, h int

	username  string
	companyID int

	active  screenID
	login   *loginScreen
	loading *loadingScreen
	city    *cityScreen
	builder *builderScreen
}

func New(cfg *config.Config, log *logrus.Logger, client *api.Client) *App {
	a := &App{cfg: cfg, log: log, api: client, w: 1280, h: 800}
	a.login = newLoginScreen(a)
	if client.HasSession() {
		// Returning player with a live token skips the login form. A stale
		// token surfaces as a 401 on the first call and drops back here.
		a.showLoading()
	} else {
		a.active = screenLogin
	}
	return a
}

func (a *App) showLoading() {
	a.loading = newLoadingScreen(a)
	a.active = screenLoading
}

func (a *App) showCity(w *loadedWorld) {
	a.city = newCityScreen(a, w)
	a.active = screenCity
}

func (a *App) showBuilder(w *loadedWorld) {
	a.builder = newBuilderScreen(a, w)
	a.active = screenBuilder
}

func (a *App) showLogin(msg string) {
	a.login = newLoginScreen(a)
	a.login.msg = msg
	a.active = screenLogin
}

func (a *App) Update() error {
	switch a.active {
	case screenLogin:
		return a.login.update()
	case screenLoading:
		return a.loading.update()
	case screenCity:
		return a.city.update()
	case screenBuilder:
		return a.builder.update()
	}
	return nil
}

func (a *App) Draw(screen *ebiten.Image) {
	switch a.active {
	case screenLogin:
		a.login.draw(screen)
	case screenLoading:
		a.loading.draw(screen)
	case screenCity:
		a.city.draw(screen)
	case screenBuilder:
		a.builder.draw(screen)
	}
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 {
		a.w = outsideWidth
		a.h = outsideHeight
	}
	return a.w, a.h
}
