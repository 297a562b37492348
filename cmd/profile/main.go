// Profiling:
// go build ./cmd/profile
// go tool pprof -http=":8000" -nodefraction=0.001 ./profile mem.pprof
package main

import (
	"github.com/TheBitDrifter/silo"
	"github.com/pkg/profile"
)

type position struct {
	X, Y float64
}

type velocity struct {
	X, Y float64
}

type health struct {
	HP int
}

func main() {
	rounds := 20
	iters := 2000
	entities := 200

	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(rounds, iters, entities)
	p.Stop()
}

// run churns entities across two archetypes ({position,velocity} and
// {position,velocity,health}) and iterates them with Find2/Find3, mirroring
// lazyecs's profile/entities/main.go create-iterate-destroy loop shape.
func run(rounds, iters, numEntities int) {
	for range rounds {
		opts := silo.DefaultOptions()
		schema, err := silo.NewIdSchema(opts)
		if err != nil {
			panic(err)
		}
		pool := silo.NewPool(schema)
		classes := silo.NewClassIndex(opts.ComponentIndexCapacity)
		registry := silo.NewRegistry(pool, classes, opts)

		posC := silo.NewComponent[position](classes)
		velC := silo.NewComponent[velocity](classes)
		hpC := silo.NewComponent[health](classes)

		moving, err := registry.ArchetypeFor(posC, velC)
		if err != nil {
			panic(err)
		}
		living, err := registry.ArchetypeFor(posC, velC, hpC)
		if err != nil {
			panic(err)
		}

		for range iters {
			var created []*silo.Entity
			for i := 0; i < numEntities; i++ {
				e, err := moving.CreateEntity(false, posC.With(position{}), velC.With(velocity{X: 1}))
				if err != nil {
					panic(err)
				}
				created = append(created, e)
			}
			for i := 0; i < numEntities/4; i++ {
				e, err := living.CreateEntity(false,
					posC.With(position{}), velC.With(velocity{X: 2}), hpC.With(health{HP: 10}))
				if err != nil {
					panic(err)
				}
				created = append(created, e)
			}

			it2 := silo.Find2(registry, posC, velC)
			for it2.Next() {
				v := it2.Value()
				v.A.X += v.B.X
				v.A.Y += v.B.Y
			}

			it3 := silo.Find3(registry, posC, velC, hpC)
			for it3.Next() {
				v := it3.Value()
				v.A.X += v.B.X
				v.C.HP--
			}

			for _, e := range created {
				if e.Archetype() != nil {
					e.Archetype().DetachEntityAndState(e)
				}
			}
		}
	}
}
