// Package sched holds the coordinator's two time-driven components: the
// animation rotator and the scheduled liveness restart.
//
// The rotator is driven by wall-clock time, not events. Each cycle it draws a
// new animation (never repeating the previous one), publishes it to shared
// state, sleeps for the rotation interval, and then defers the next rotation
// while a recent pause request holds — polling once a second, but never past
// the interval plus the maximum lock extension. A single pause request can
// therefore delay a rotation, never block it indefinitely.
package sched
