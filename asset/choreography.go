package asset

// DefaultChoreography is the built-in phase script
// Chains "left", "right" and "sigil" and anchor sets "fist", "fist_mirror" and "sigil" must exist
const DefaultChoreography = `

# === Regions ===
[regions]
main = { initial = "GATHERED" }
side = { initial = "SIDE_IDLE" }


# === Main loop ===

[states.GATHERED]
wait = "6s"
next = "RELEASED"
on_enter = [
    { action = "gravity", x = 0.0, y = 1.0 },
    { action = "anchor_set", chain = "left", set = "fist" },
    { action = "anchor_set", chain = "right", set = "fist_mirror" },
    { action = "cue", freq = 392.0, ms = 140 },
]

[states.RELEASED]
wait = "4s"
next = "REFORMED"
on_enter = [
    { action = "free_all", chain = "left" },
    { action = "free_all", chain = "right" },
    { action = "gravity", x = 0.0, y = -0.4 },
    { action = "cue", freq = 330.0, ms = 140 },
]

[states.REFORMED]
wait = "5s"
next = "CONFRONTATION_A"
on_enter = [
    { action = "gravity", x = 0.0, y = 0.0 },
    { action = "anchor_set", chain = "left", set = "fist", stiffness = 0.02 },
    { action = "anchor_set", chain = "right", set = "fist_mirror", stiffness = 0.02 },
    { action = "cue", freq = 440.0, ms = 140 },
]

[states.CONFRONTATION_A]
wait = "3s"
next = "CONFRONTATION_B"
on_enter = [
    { action = "gravity", x = 0.0, y = 0.0 },
    { action = "anchor_all", chain = "left", point = [220.0, 300.0] },
    { action = "anchor_all", chain = "right", point = [580.0, 300.0] },
    { action = "cue", freq = 494.0, ms = 100 },
]

[states.CONFRONTATION_B]
wait = "3s"
next = "CONFRONTATION_C"
on_enter = [
    { action = "gravity", x = 0.3, y = 0.0 },
    { action = "anchor_all", chain = "left", point = [360.0, 300.0] },
    { action = "anchor_all", chain = "right", point = [440.0, 300.0] },
    { action = "cue", freq = 523.0, ms = 100 },
]

[states.CONFRONTATION_C]
wait = "4s"
next = "RESET"
on_enter = [
    { action = "gravity", x = -0.3, y = 0.2 },
    { action = "free_all", chain = "left" },
    { action = "anchor_set", chain = "right", set = "fist" },
    { action = "cue", freq = 587.0, ms = 180 },
]

[states.RESET]
wait = "2s"
next = "GATHERED"
on_enter = [
    { action = "free_all", chain = "left" },
    { action = "free_all", chain = "right" },
    { action = "gravity", x = 0.0, y = 1.0 },
    { action = "log", text = "loop complete" },
]


# === Side sequence ===

[states.SIDE_IDLE]
transitions = [
    { trigger = "side", target = "SIDE_FORM" },
]

[states.SIDE_FORM]
wait = "4s"
next = "SIDE_FREE"
on_enter = [
    { action = "acquire", chain = "sigil" },
    { action = "anchor_set", chain = "sigil", set = "sigil" },
    { action = "cue", freq = 660.0, ms = 220, wave = "triangle" },
]

[states.SIDE_FREE]
wait = "1s"
next = "SIDE_IDLE"
on_enter = [
    { action = "free_all", chain = "sigil" },
    { action = "release", chain = "sigil" },
]
`
