package sim

import "time"

const (
	TickRate     = 60 // simulation ticks per second
	TickDelta    = 1.0 / TickRate
	TickDuration = time.Second / TickRate

	MatchDurationMS    = 120000
	HoldSeconds        = 3.0
	HoldTicks          = int(HoldSeconds * TickRate)
	ThrowCooldownMS    = 300
	ThrowCooldownTicks = ThrowCooldownMS * TickRate / 1000

	MaxHealth       = 100
	DriverHitDamage = 20 // damage a cone deals to a driver
	PlayerHitDamage = 2  // damage a driver projectile deals to the player
	HitReward       = 50
	HitPenalty      = 10

	PlayerSpeed           = 300.0 // units/s
	PlayerProjectileSpeed = 10.0  // units/tick
	DriverProjectileSpeed = 5.0   // units/tick
	ProjectileMargin      = 100.0 // out-of-bounds slack around the arena

	EdgeMargin      = 100.0 // drivers closer than this to an edge bias toward the center
	RedirectMin     = 3.0   // seconds
	RedirectMax     = 8.0
	EdgeBlendRand   = 0.3
	EdgeBlendHome   = 0.7
	BounceBlendDir  = 0.2
	BounceBlendHome = 0.8

	AttackChance = 0.01 // per live driver per tick

	TauntMin = 6.0 // seconds between driver taunts
	TauntMax = 12.0
)

// Half extents of the collision boxes.
var (
	PlayerHalf     = Vec2{X: 20, Y: 20}
	DriverHalf     = Vec2{X: 25, Y: 25}
	ProjectileHalf = Vec2{X: 8, Y: 8}
)

// PlayerStart is where the player's car spawns.
var PlayerStart = Vec2{X: 100, Y: 300}
