// Command fixture-server is a self-contained stand-in for the real backend:
// canned maps, a JWT-checked API surface and optional sprite serving, enough
// to run the client end to end on a laptop.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	addr := os.Getenv("NOTROPOLIS_FIXTURE_ADDR")
	if addr == "" {
		addr = ":8700"
	}
	secret := []byte(os.Getenv("NOTROPOLIS_JWT_SECRET"))
	if len(secret) == 0 {
		secret = []byte("fixture-only-secret")
	}

	srv := newServer(secret, os.Getenv("NOTROPOLIS_SPRITE_DIR"), log)
	log.WithField("addr", addr).Info("fixture server listening")
	if err := srv.router.Run(addr); err != nil {
		log.Fatal(err)
	}
}
