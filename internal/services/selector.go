package services

import (
	"errors"
	"fmt"
	"path/filepath"

	"OT2Connect/internal/config"
	"OT2Connect/internal/domain/entities"
	"OT2Connect/internal/interfaces"
)

// ErrProtocolNotFound возвращается, когда для пары (объём, штативы)
// не зарегистрирован протокол.
var ErrProtocolNotFound = errors.New("протокол не найден")

// Поддерживаемый набор: два объёма на четыре варианта числа штативов.
var (
	supportedVolumes = []float64{4.5, 9.0}
	supportedRacks   = []int{1, 2, 3, 4}
)

type protocolKey struct {
	volume float64
	racks  int
}

// ProtocolSelector — чистый справочник протоколов дозирования.
// Таблица строится один раз при создании и дальше не меняется.
type ProtocolSelector struct {
	registry map[protocolKey]entities.ProtocolAsset
}

func NewProtocolSelector(cfg *config.AppConfig) interfaces.ProtocolSelector {
	registry := make(map[protocolKey]entities.ProtocolAsset, len(supportedVolumes)*len(supportedRacks))
	for _, volume := range supportedVolumes {
		for _, racks := range supportedRacks {
			name := fmt.Sprintf("dispenseProtocol%.1fml%dRacks.py", volume, racks)
			registry[protocolKey{volume: volume, racks: racks}] = entities.ProtocolAsset{
				Volume: volume,
				Racks:  racks,
				Path:   filepath.Join(cfg.ProtocolDir, name),
			}
		}
	}
	return &ProtocolSelector{registry: registry}
}

// Select возвращает протокол для пары (объём, штативы) либо ErrProtocolNotFound.
func (s *ProtocolSelector) Select(volume float64, racks int) (entities.ProtocolAsset, error) {
	asset, found := s.registry[protocolKey{volume: volume, racks: racks}]
	if !found {
		return entities.ProtocolAsset{}, fmt.Errorf("нет протокола для %g мл и %d штативов: %w", volume, racks, ErrProtocolNotFound)
	}
	return asset, nil
}
