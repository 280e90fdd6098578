package actions

import "github.com/mrpepsi1069/LockerRoom/src/actions/core"

type (
	Manager = core.Manager
	Module  = core.Module
)

func NewManager(mods ...Module) *Manager {
	return core.NewManager(mods...)
}
