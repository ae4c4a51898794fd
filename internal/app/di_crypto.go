package app

import (
	"fmt"

	cryptoService "github.com/allisson/vault/internal/crypto/service"
)

// KeyRing returns the key ring derived from the server secret.
func (c *Container) KeyRing() (*cryptoService.KeyRing, error) {
	c.keyRingInit.Do(func() {
		keyRing, err := cryptoService.NewKeyRing(c.config.ServerSecret)
		if err != nil {
			c.initErrors["keyRing"] = fmt.Errorf("failed to create key ring: %w", err)
			return
		}
		c.keyRing = keyRing
	})
	if storedErr, exists := c.initErrors["keyRing"]; exists {
		return nil, storedErr
	}
	return c.keyRing, nil
}

// Engine returns the AES-256-GCM crypto engine.
func (c *Container) Engine() (cryptoService.Engine, error) {
	c.engineInit.Do(func() {
		engine, err := c.initEngine()
		if err != nil {
			c.initErrors["engine"] = err
			return
		}
		c.engine = engine
	})
	if storedErr, exists := c.initErrors["engine"]; exists {
		return nil, storedErr
	}
	return c.engine, nil
}

// initEngine creates the crypto engine from the key ring's encryption key.
func (c *Container) initEngine() (cryptoService.Engine, error) {
	keyRing, err := c.KeyRing()
	if err != nil {
		return nil, fmt.Errorf("failed to get key ring for engine: %w", err)
	}

	engine, err := cryptoService.NewAESGCMEngine(keyRing.EncryptionKey())
	if err != nil {
		return nil, fmt.Errorf("failed to create crypto engine: %w", err)
	}

	return engine, nil
}
