/*
Package polyquad estimates definite integrals of real polynomials by Monte Carlo sampling.
The polynomial is enclosed in the tightest rectangle spanning its extrema over the interval
and the zero baseline, and signed hits are counted inside that rectangle. The extrema are
located with the real roots of the derivative, computed either from the eigenvalues of the
companion matrix or by recursive bracketing.

The library is organized in the following packages:
  - poly: polynomial evaluation, differentiation, exact integration and real root finding.
  - montecarlo: bounding rectangles, the concurrent estimator and its parameters.
  - utils/sampling: keyed pseudo-random streams and uniform samplers.
  - utils/bignum: arbitrary precision evaluation.
*/
package polyquad
