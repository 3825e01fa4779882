package session

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/gophwallet/internal/common"
	"github.com/dmitrijs2005/gophwallet/internal/cryptox"
	"github.com/dmitrijs2005/gophwallet/internal/filex"
)

const deviceSecretSize = 32

// DeviceKey reads the device secret at path, creating it with mode 0600 when
// missing, and derives the record sealing key from it.
func DeviceKey(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return createDeviceKey(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read device key: %w", err)
	}

	material, err := hex.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil || len(material) != cryptox.SaltSize+deviceSecretSize {
		return nil, fmt.Errorf("device key %s is malformed", path)
	}
	defer common.Wipe(material)

	return cryptox.DeriveKey(material[cryptox.SaltSize:], material[:cryptox.SaltSize]), nil
}

func createDeviceKey(path string) ([]byte, error) {
	material, err := common.RandomBytes(cryptox.SaltSize + deviceSecretSize)
	if err != nil {
		return nil, err
	}
	defer common.Wipe(material)

	if err := filex.EnsureParentDir(path, 0o700); err != nil {
		return nil, fmt.Errorf("create device key dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(hex.EncodeToString(material)), 0o600); err != nil {
		return nil, fmt.Errorf("write device key: %w", err)
	}
	return cryptox.DeriveKey(material[cryptox.SaltSize:], material[:cryptox.SaltSize]), nil
}
