package cookie

import (
	"encoding/json"
	"fmt"
	"net/http"
)

const flashPrefix = "flash_"

// SetFlash stores value as signed JSON for the next request to pick up.
func (m *Manager) SetFlash(w http.ResponseWriter, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal flash: %w", err)
	}
	m.SetSigned(w, flashPrefix+key, string(data))
	return nil
}

// GetFlash decodes the flash stored under key into dest and deletes it, so
// it is shown once.
func (m *Manager) GetFlash(w http.ResponseWriter, r *http.Request, key string, dest any) error {
	name := flashPrefix + key
	data, err := m.GetSigned(r, name)
	if err != nil {
		return err
	}
	m.Delete(w, name)

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("unmarshal flash: %w", err)
	}
	return nil
}
