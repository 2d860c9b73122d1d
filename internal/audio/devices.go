package audio

import (
	"fmt"
	"sort"

	"github.com/gordonklaus/portaudio"
)

// Device describes an input-capable PortAudio device for CLI listing.
type Device struct {
	Name           string
	HostAPI        string
	InputChannels  int
	SampleRateHz   float64
	IsDefaultInput bool
}

// ListInputDevices returns the available input devices sorted by host API
// and name.
func ListInputDevices() ([]Device, error) {
	hosts, err := portaudio.HostApis()
	if err != nil {
		return nil, fmt.Errorf("host apis: %w", err)
	}

	defaultIndex := -1
	if def, err := portaudio.DefaultInputDevice(); err == nil && def != nil {
		defaultIndex = def.Index
	}

	var devices []Device
	for _, host := range hosts {
		for _, d := range host.Devices {
			if d.MaxInputChannels == 0 {
				continue
			}
			devices = append(devices, Device{
				Name:           d.Name,
				HostAPI:        host.Name,
				InputChannels:  d.MaxInputChannels,
				SampleRateHz:   d.DefaultSampleRate,
				IsDefaultInput: d.Index == defaultIndex,
			})
		}
	}

	sort.Slice(devices, func(i, j int) bool {
		if devices[i].HostAPI == devices[j].HostAPI {
			return devices[i].Name < devices[j].Name
		}
		return devices[i].HostAPI < devices[j].HostAPI
	})
	return devices, nil
}
