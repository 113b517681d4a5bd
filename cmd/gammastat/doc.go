// Public domain.

// Gammastat reduces gamma-ray observations to ON/OFF spectrum datasets
// and fits spectral models to them.
//
// Input is a YAML run configuration naming observation event files, the
// ON region, reflected-background settings, energy axes, instrument
// response tables and the spectral model.  Each observation file is an
// event list in the gammastat columnar text format (see package event).
//
// Usage:
//
//	gammastat reduce -c run.yaml [-o dir]   reduce observations to datasets
//	gammastat fit -c run.yaml               joint spectral fit
//	gammastat flux -c run.yaml              full pipeline with flux points
//	gammastat simulate -c run.yaml [-o dir] Poisson realization of the model
//	gammastat version                       display version and copyright
//
// Reduction bins each observation's ON-region events over the
// reconstructed energy axis, counts background in reflected OFF
// regions, and attaches exposure and an energy-dispersion matrix over
// the true energy axis.  Observations where no OFF region fits the
// field are kept but flagged incomplete; they score zero in fits.
//
// The fit minimizes the profiled ON/OFF Poisson statistic jointly over
// all reduced datasets, sharing one spectral model by reference.  Flux
// points then refit a single scale factor of the fitted shape
// independently in each energy bin; bins without a significant excess
// report an upper limit instead.
//
// Results are plain text tables on standard output.  Progress and
// warnings are structured log lines on standard error.
package main
