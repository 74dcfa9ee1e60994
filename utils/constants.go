package utils

// Epsilon is the general purpose tolerance for floating point comparisons of level geometry.
const Epsilon = 1e-9

// NormalLengthTolerance bounds how far a stored normal may drift from unit length.
const NormalLengthTolerance = 1e-6
