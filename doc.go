/*
Package navstack keeps a declarative navigation stack synchronized with an
imperative, stack-shaped presentation surface.

The stack is an ordered list of items, root first. Each item carries an
opaque identity and a payload of one registered variant. Item-scoped
actions are routed by identity to the reducer of the owning variant; a
variant may also translate its actions into stack changes (push, pop, pop to
root) applied in the same pass. After every pass the presentation surface is
reconciled: payload-only changes are pushed in place, structural changes are
handed over as one complete list of views.

The surface may also change on its own, for example through an interactive
back gesture. It reports the identities it shows and the engine folds that
sequence back into the stack without re-issuing it.

# Usage

	reg := registry.New().MustRegister(rootDefinition, detailDefinition)

	eng, err := navstack.New(reg, surface, RootPayload{},
		navstack.WithLogger(logger),
		navstack.WithMetrics(observability.New(nil)),
	)
	if err != nil {
		log.Fatal(err)
	}

	go eng.Run(ctx)

	root := eng.State().Root()
	eng.Dispatch(domain.ItemAction{ID: root.ID, Inner: OpenDetail{}})
*/
package navstack
