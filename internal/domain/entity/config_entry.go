package entity

// Managed configuration keys
const (
	ConfigSSHUsername   = "SSH_USERNAME"
	ConfigSSHKey        = "SSH_KEY"
	ConfigSSHPassphrase = "SSH_PASSPHRASE"
	ConfigBastionHost   = "BASTION_HOST"
	ConfigBastionPort   = "BASTION_PORT"
	ConfigSSHLocalPort  = "SSH_LOCAL_PORT"
	ConfigTargetHost    = "TARGET_HOST"
	ConfigSSHRemotePort = "SSH_REMOTE_PORT"
)

// MaskedValue replaces secret values wherever they are rendered
const MaskedValue = "********"

// ConfigKeys lists the managed keys in display order
var ConfigKeys = []string{
	ConfigSSHUsername,
	ConfigSSHKey,
	ConfigSSHPassphrase,
	ConfigBastionHost,
	ConfigBastionPort,
	ConfigSSHLocalPort,
	ConfigTargetHost,
	ConfigSSHRemotePort,
}

// ConfigEntry is one key/value pair of the console configuration
type ConfigEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// IsConfigKey reports whether key is managed by the console
func IsConfigKey(key string) bool {
	for _, k := range ConfigKeys {
		if k == key {
			return true
		}
	}
	return false
}

// IsSecretConfigKey reports whether the value of key must never be shown in clear text
func IsSecretConfigKey(key string) bool {
	return key == ConfigSSHPassphrase
}

// IsFileConfigKey reports whether the value of key is a file path filled by the picker
func IsFileConfigKey(key string) bool {
	return key == ConfigSSHKey
}

// Masked returns the entry as it may be displayed
func (c ConfigEntry) Masked() ConfigEntry {
	if IsSecretConfigKey(c.Key) && c.Value != "" {
		return ConfigEntry{Key: c.Key, Value: MaskedValue}
	}
	return c
}
