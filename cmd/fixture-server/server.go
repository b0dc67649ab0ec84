package main

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/bakerboysgame/notropolis-client/internal/api"
	"github.com/bakerboysgame/notropolis-client/internal/world"
)

const buildCost = 5000

// server holds the in-memory fixture state. One lock covers everything; this
// is a dev tool, not a production backend.
type server struct {
	router *gin.Engine
	secret []byte
	log    *logrus.Logger

	mu        sync.Mutex
	maps      map[string]*fixtureMap
	balances  map[int]int64
	companies map[string]int // username -> company id
	nextCo    int
	genPolls  map[string]int
}

type fixtureMap struct {
	meta      api.MapPayload
	grid      *world.Grid
	buildings map[world.Coord]*world.BuildingInstance
}

func newServer(secret []byte, spriteDir string, log *logrus.Logger) *server {
	s := &server{
		secret:    secret,
		log:       log,
		maps:      map[string]*fixtureMap{},
		balances:  map[int]int64{},
		companies: map[string]int{},
		nextCo:    1,
	}
	s.maps["m-rivermouth"] = seedMap()

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), cors.Default())

	r.POST("/api/login", s.login)
	r.POST("/api/register", s.register)
	if spriteDir != "" {
		r.Static("/sprites", spriteDir)
	}

	auth := r.Group("/api", s.authz())
	auth.GET("/maps", s.listMaps)
	auth.GET("/maps/:id/tiles", s.mapTiles)
	auth.GET("/maps/:id/tiles/:x/:y", s.tileDetail)
	auth.POST("/actions/:name", s.action)
	auth.POST("/bank/transfer", s.transfer)
	auth.GET("/generation/:job", s.generation)
	auth.POST("/admin/maps", s.createMap)
	auth.PUT("/admin/maps/:id", s.updateMap)
	auth.PUT("/admin/maps/:id/tiles", s.uploadTiles)

	s.router = r
	return s
}

// seedMap builds the default 24x24 demo map: a road ring, a river, a couple
// of landmarks and some pre-owned blocks.
func seedMap() *fixtureMap {
	g := world.NewGrid(24, 24)
	for i := 4; i <= 19; i++ {
		g.Paint(i, 4, world.TerrainRoad)
		g.Paint(i, 19, world.TerrainRoad)
		g.Paint(4, i, world.TerrainRoad)
		g.Paint(19, i, world.TerrainRoad)
	}
	g.Paint(11, 4, world.TerrainRoad)
	for y := 5; y < 19; y++ {
		g.Paint(11, y, world.TerrainRoad)
	}
	for y := 0; y < 24; y++ {
		g.At(1, y).Terrain = world.TerrainWater
	}
	for _, c := range []world.Coord{{X: 6, Y: 7}, {X: 7, Y: 7}, {X: 16, Y: 15}} {
		g.At(c.X, c.Y).Terrain = world.TerrainTrees
	}
	g.At(8, 8).Special = world.SpecialBank
	g.At(15, 6).Special = world.SpecialTemple

	buildings := map[world.Coord]*world.BuildingInstance{}
	own := func(x, y int, co int, typeID string, dmg int, fire bool) {
		g.At(x, y).OwnerID = co
		buildings[world.Coord{X: x, Y: y}] = &world.BuildingInstance{
			TileX: x, TileY: y, TypeID: typeID, CompanyID: co, DamagePct: dmg, OnFire: fire,
		}
	}
	own(5, 5, 1, "shop", 0, false)
	own(6, 5, 1, "apartment", 25, false)
	own(13, 13, 2, "factory", 60, true)
	g.At(14, 13).OwnerID = 2 // claimed, nothing built

	return &fixtureMap{
		meta: api.MapPayload{
			ID: "m-rivermouth", Width: 24, Height: 24,
			Country: "uk", LocationType: "city", HeroThreshold: 1_000_000,
		},
		grid:      g,
		buildings: buildings,
	}
}

/* ------------------------ auth ------------------------ */

func (s *server) login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password required"})
		return
	}

	s.mu.Lock()
	co, ok := s.companies[req.Username]
	if !ok {
		co = s.nextCo
		s.nextCo++
		s.companies[req.Username] = co
		s.balances[co] = 50_000
	}
	s.mu.Unlock()

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": req.Username,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	})
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token signing failed"})
		return
	}
	c.JSON(http.StatusOK, api.LoginResponse{Token: signed, Username: req.Username, CompanyID: co})
}

func (s *server) register(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Company  string `json:"company_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username required"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.companies[req.Username]; exists {
		c.JSON(http.StatusConflict, gin.H{"error": "username taken"})
		return
	}
	co := s.nextCo
	s.nextCo++
	s.companies[req.Username] = co
	s.balances[co] = 50_000
	c.Status(http.StatusCreated)
}

// authz checks the Bearer token: HS256 only, exp enforced, the subject and
// its company land in the gin context.
func (s *server) authz() gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tok, err := jwt.Parse(strings.TrimPrefix(ah, "Bearer "), func(t *jwt.Token) (any, error) {
			if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, jwt.ErrTokenUnverifiable
			}
			return s.secret, nil
		})
		if err != nil || !tok.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		claims, _ := tok.Claims.(jwt.MapClaims)
		sub, _ := claims["sub"].(string)
		if sub == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			return
		}

		s.mu.Lock()
		co := s.companies[sub]
		s.mu.Unlock()
		if co == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown account"})
			return
		}
		c.Set("company", co)
		c.Next()
	}
}

func company(c *gin.Context) int { return c.GetInt("company") }

/* ------------------------ reads ------------------------ */

func (s *server) listMaps(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]api.MapPayload, 0, len(s.maps))
	for _, m := range s.maps {
		out = append(out, m.meta)
	}
	c.JSON(http.StatusOK, gin.H{"maps": out})
}

func (s *server) findMap(c *gin.Context) *fixtureMap {
	m := s.maps[c.Param("id")]
	if m == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such map"})
	}
	return m
}

func tilePayload(t *world.Tile) api.TilePayload {
	return api.TilePayload{
		X: t.X, Y: t.Y,
		Terrain: t.Terrain.String(),
		Variant: t.Variant,
		OwnerID: t.OwnerID,
		Special: t.Special.String(),
	}
}

func buildingPayload(b *world.BuildingInstance) *api.BuildingPayload {
	if b == nil {
		return nil
	}
	return &api.BuildingPayload{
		X: b.TileX, Y: b.TileY,
		TypeID:    b.TypeID,
		CompanyID: b.CompanyID,
		DamagePct: b.DamagePct,
		OnFire:    b.OnFire,
		Collapsed: b.Collapsed,
		ForSale:   b.ForSale,
		SalePrice: b.SalePrice,
	}
}

func (s *server) mapTiles(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.findMap(c)
	if m == nil {
		return
	}
	resp := api.MapTiles{Map: m.meta}
	for i := range m.grid.Tiles {
		resp.Tiles = append(resp.Tiles, tilePayload(&m.grid.Tiles[i]))
	}
	for _, b := range m.buildings {
		resp.Buildings = append(resp.Buildings, *buildingPayload(b))
	}
	c.JSON(http.StatusOK, resp)
}

func (s *server) tileDetail(c *gin.Context) {
	x, _ := strconv.Atoi(c.Param("x"))
	y, _ := strconv.Atoi(c.Param("y"))

	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.findMap(c)
	if m == nil {
		return
	}
	t := m.grid.At(x, y)
	if t == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "tile out of bounds"})
		return
	}
	d := api.TileDetail{Tile: tilePayload(t)}
	if b := m.buildings[world.Coord{X: x, Y: y}]; b != nil {
		d.Building = buildingPayload(b)
	}
	if t.OwnerID != 0 {
		d.OwnerName = s.companyName(t.OwnerID)
	}
	c.JSON(http.StatusOK, d)
}

func (s *server) companyName(co int) string {
	for name, id := range s.companies {
		if id == co {
			return name
		}
	}
	return fmt.Sprintf("company %d", co)
}

/* ------------------------ actions ------------------------ */

type actionRequest struct {
	MapID  string `json:"map_id"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	TypeID string `json:"type_id,omitempty"`
	Price  int64  `json:"price,omitempty"`
	Level  int    `json:"level,omitempty"`
}

func (s *server) action(c *gin.Context) {
	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad action request"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.maps[req.MapID]
	if m == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such map"})
		return
	}
	t := m.grid.At(req.X, req.Y)
	if t == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tile out of bounds"})
		return
	}

	co := company(c)
	coord := world.Coord{X: req.X, Y: req.Y}
	b := m.buildings[coord]

	var res api.ActionResult
	switch c.Param("name") {
	case "build":
		res = s.build(m, t, b, co, req.TypeID)
	case "demolish":
		res = s.demolish(m, t, b, co)
	case "buy":
		res = s.buy(m, t, b, co)
	case "sell":
		res = s.sell(t, b, co, req.Price)
	case "repair":
		res = s.repair(b, co)
	case "attack":
		res = s.attack(b, co)
	case "security":
		res = s.security(t, co, req.Level)
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown action"})
		return
	}
	res.Balance = s.balances[co]
	c.JSON(http.StatusOK, res)
}

func (s *server) build(m *fixtureMap, t *world.Tile, b *world.BuildingInstance, co int, typeID string) api.ActionResult {
	if typeID == "" {
		typeID = "shack"
	}
	if b != nil {
		return api.ActionResult{Message: "tile already has a building"}
	}
	if t.Terrain != world.TerrainFreeLand {
		return api.ActionResult{Message: "cannot build on " + t.Terrain.String()}
	}
	if t.OwnerID != 0 && t.OwnerID != co {
		return api.ActionResult{Message: "land belongs to another company"}
	}
	if s.balances[co] < buildCost {
		return api.ActionResult{Message: "insufficient funds"}
	}
	s.balances[co] -= buildCost
	t.OwnerID = co
	nb := &world.BuildingInstance{TileX: t.X, TileY: t.Y, TypeID: typeID, CompanyID: co}
	m.buildings[world.Coord{X: t.X, Y: t.Y}] = nb
	return api.ActionResult{Success: true, Tile: ptr(tilePayload(t)), Building: buildingPayload(nb)}
}

func (s *server) demolish(m *fixtureMap, t *world.Tile, b *world.BuildingInstance, co int) api.ActionResult {
	if b == nil {
		return api.ActionResult{Message: "nothing to demolish"}
	}
	if b.CompanyID != co {
		return api.ActionResult{Message: "not your building"}
	}
	delete(m.buildings, world.Coord{X: t.X, Y: t.Y})
	return api.ActionResult{Success: true, Tile: ptr(tilePayload(t))}
}

func (s *server) buy(m *fixtureMap, t *world.Tile, b *world.BuildingInstance, co int) api.ActionResult {
	if b != nil {
		if !b.ForSale {
			return api.ActionResult{Message: "not for sale"}
		}
		if s.balances[co] < b.SalePrice {
			return api.ActionResult{Message: "insufficient funds"}
		}
		s.balances[co] -= b.SalePrice
		s.balances[b.CompanyID] += b.SalePrice
		b.CompanyID = co
		b.ForSale = false
		b.SalePrice = 0
		t.OwnerID = co
		return api.ActionResult{Success: true, Tile: ptr(tilePayload(t)), Building: buildingPayload(b)}
	}
	if t.OwnerID != 0 {
		return api.ActionResult{Message: "land belongs to another company"}
	}
	const landCost = 1000
	if s.balances[co] < landCost {
		return api.ActionResult{Message: "insufficient funds"}
	}
	s.balances[co] -= landCost
	t.OwnerID = co
	return api.ActionResult{Success: true, Tile: ptr(tilePayload(t))}
}

func (s *server) sell(t *world.Tile, b *world.BuildingInstance, co int, price int64) api.ActionResult {
	if b == nil || b.CompanyID != co {
		return api.ActionResult{Message: "nothing of yours to sell here"}
	}
	if price <= 0 {
		return api.ActionResult{Message: "price must be positive"}
	}
	b.ForSale = true
	b.SalePrice = price
	return api.ActionResult{Success: true, Tile: ptr(tilePayload(t)), Building: buildingPayload(b)}
}

func (s *server) repair(b *world.BuildingInstance, co int) api.ActionResult {
	if b == nil || b.CompanyID != co {
		return api.ActionResult{Message: "nothing of yours to repair here"}
	}
	const repairCost = 500
	if s.balances[co] < repairCost {
		return api.ActionResult{Message: "insufficient funds"}
	}
	s.balances[co] -= repairCost
	b.DamagePct = 0
	b.OnFire = false
	b.Collapsed = false
	return api.ActionResult{Success: true, Building: buildingPayload(b)}
}

func (s *server) attack(b *world.BuildingInstance, co int) api.ActionResult {
	if b == nil {
		return api.ActionResult{Message: "nothing to attack"}
	}
	if b.CompanyID == co {
		return api.ActionResult{Message: "that building is yours"}
	}
	b.DamagePct += 35
	if b.DamagePct >= 100 {
		b.DamagePct = 100
		b.Collapsed = true
	}
	return api.ActionResult{Success: true, Building: buildingPayload(b)}
}

func (s *server) security(t *world.Tile, co, level int) api.ActionResult {
	if t.OwnerID != co {
		return api.ActionResult{Message: "not your land"}
	}
	if level < 0 || level > 3 {
		return api.ActionResult{Message: "security level out of range"}
	}
	return api.ActionResult{Success: true, Message: fmt.Sprintf("security set to %d", level)}
}

func (s *server) transfer(c *gin.Context) {
	var req struct {
		ToCompany int   `json:"to_company"`
		Amount    int64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad transfer request"})
		return
	}
	co := company(c)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.balances[co] < req.Amount {
		c.JSON(http.StatusOK, api.ActionResult{Message: "insufficient funds", Balance: s.balances[co]})
		return
	}
	s.balances[co] -= req.Amount
	s.balances[req.ToCompany] += req.Amount
	c.JSON(http.StatusOK, api.ActionResult{Success: true, Balance: s.balances[co]})
}

// generation fakes the asset queue: every job is two polls from ready.
func (s *server) generation(c *gin.Context) {
	job := c.Param("job")
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.genPolls == nil {
		s.genPolls = map[string]int{}
	}
	s.genPolls[job]++
	switch n := s.genPolls[job]; {
	case n < 3:
		c.JSON(http.StatusOK, api.GenerationStatus{State: "generating", Position: 3 - n})
	default:
		c.JSON(http.StatusOK, api.GenerationStatus{State: "ready", ThumbnailURL: "/sprites/building_" + job + ".png"})
	}
}

/* ------------------------ admin ------------------------ */

func (s *server) createMap(c *gin.Context) {
	var meta api.MapPayload
	if err := c.ShouldBindJSON(&meta); err != nil || meta.Width <= 0 || meta.Height <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad map"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if meta.ID == "" {
		meta.ID = fmt.Sprintf("m-%d", len(s.maps)+1)
	}
	s.maps[meta.ID] = &fixtureMap{
		meta:      meta,
		grid:      world.NewGrid(meta.Width, meta.Height),
		buildings: map[world.Coord]*world.BuildingInstance{},
	}
	c.JSON(http.StatusCreated, meta)
}

func (s *server) updateMap(c *gin.Context) {
	var meta api.MapPayload
	if err := c.ShouldBindJSON(&meta); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad map"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.findMap(c)
	if m == nil {
		return
	}
	meta.ID = m.meta.ID
	meta.Width = m.meta.Width // dimensions are fixed after creation
	meta.Height = m.meta.Height
	m.meta = meta
	c.JSON(http.StatusOK, meta)
}

func (s *server) uploadTiles(c *gin.Context) {
	var req struct {
		Tiles []api.TilePayload `json:"tiles"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad tiles"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.findMap(c)
	if m == nil {
		return
	}
	for _, p := range req.Tiles {
		if t := m.grid.At(p.X, p.Y); t != nil {
			*t = p.ToWorld()
		}
	}
	// Variants are recomputed server-side; clients may send stale ones.
	m.grid.RefreshAllVariants()
	c.Status(http.StatusNoContent)
}

func ptr[T any](v T) *T { return &v }
