package valueobjects

import (
	"fmt"
	"strings"
)

type OperatingSystem string

const (
	OSUbuntu2204        OperatingSystem = "ubuntu-22.04"
	OSDebian12          OperatingSystem = "debian-12"
	OSWindowsServer2022 OperatingSystem = "windows-server-2022"
)

// BaseOperatingSystem is preselected in the editor and carries no license fee.
const BaseOperatingSystem = OSUbuntu2204

var osNames = map[OperatingSystem]string{
	OSUbuntu2204:        "Ubuntu 22.04 LTS",
	OSDebian12:          "Debian 12",
	OSWindowsServer2022: "Windows Server 2022",
}

// Display names are what the configurator sends as values.
var osAliases = map[string]OperatingSystem{
	"ubuntu-22.04":        OSUbuntu2204,
	"ubuntu 22.04 lts":    OSUbuntu2204,
	"ubuntu 22.04":        OSUbuntu2204,
	"debian-12":           OSDebian12,
	"debian 12":           OSDebian12,
	"windows-server-2022": OSWindowsServer2022,
	"windows server 2022": OSWindowsServer2022,
}

func OperatingSystems() []OperatingSystem {
	return []OperatingSystem{OSUbuntu2204, OSDebian12, OSWindowsServer2022}
}

func ParseOperatingSystem(value string) (OperatingSystem, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return "", fmt.Errorf("operating system cannot be empty")
	}
	os, ok := osAliases[normalized]
	if !ok {
		return "", fmt.Errorf("invalid operating system: %s", value)
	}
	return os, nil
}

func (o OperatingSystem) String() string {
	return string(o)
}

func (o OperatingSystem) IsValid() bool {
	_, ok := osNames[o]
	return ok
}

func (o OperatingSystem) DisplayName() string {
	if n, ok := osNames[o]; ok {
		return n
	}
	return string(o)
}
